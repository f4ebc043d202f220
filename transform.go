package main

// The viewport transform maps between world space and screen space.
// Pan is the screen-space position of world origin; zoom scales world
// distances into screen distances.
//
//	screen = world*zoom + pan
//	world  = (screen - pan) / zoom

func screenToWorld(p Point, panX, panY, zoom float64) Point {
	return Point{
		X: (p.X - panX) / zoom,
		Y: (p.Y - panY) / zoom,
	}
}

func worldToScreen(p Point, panX, panY, zoom float64) Point {
	return Point{
		X: p.X*zoom + panX,
		Y: p.Y*zoom + panY,
	}
}

func clampZoom(z float64) float64 {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// zoomAbout computes the pan and zoom after changing zoom such that
// the world point under the screen anchor stays under the anchor. Used
// for both button zoom (anchor = viewport center) and wheel zoom
// (anchor = cursor). If clamping leaves the zoom unchanged, the pan is
// left untouched.
func zoomAbout(anchor Point, panX, panY, oldZoom, newZoom float64) (float64, float64, float64) {
	newZoom = clampZoom(newZoom)
	if newZoom == oldZoom {
		return panX, panY, oldZoom
	}
	under := screenToWorld(anchor, panX, panY, oldZoom)
	return anchor.X - under.X*newZoom, anchor.Y - under.Y*newZoom, newZoom
}

// snapToGrid rounds a world coordinate to the nearest grid multiple.
func snapToGrid(v float64) float64 {
	n := v / gridUnit
	if n >= 0 {
		n = float64(int(n + 0.5))
	} else {
		n = float64(int(n - 0.5))
	}
	return n * gridUnit
}
