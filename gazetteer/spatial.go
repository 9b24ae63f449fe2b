package gazetteer

import "math"

// k-d tree over stop coordinates, alternating longitude/latitude splits.
// Built once per mode at index construction; queries are read-only.

const (
	axisLon = 0
	axisLat = 1

	// Kilometres per degree used to lower-bound the distance from a query
	// point to a splitting plane. Latitude degrees span 110.57-111.7 km and
	// longitude degrees are shorter still (cosine-scaled below), so taking
	// the low end means the search never prunes a subtree that could hold
	// an in-radius stop.
	kmPerDegree = 110.574
)

type kdNode struct {
	stop *Stop
	ax   int
	l, r *kdNode
}

func buildKD(stops []*Stop, depth int) *kdNode {
	if len(stops) == 0 {
		return nil
	}
	ax := depth % 2
	mid := len(stops) / 2
	selectNth(stops, mid, ax)
	node := &kdNode{stop: stops[mid], ax: ax}
	node.l = buildKD(stops[:mid], depth+1)
	node.r = buildKD(stops[mid+1:], depth+1)
	return node
}

// In-place nth-element selection on the split axis.
func selectNth(a []*Stop, n, ax int) {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := partition(a, lo, hi, (lo+hi)/2, ax)
		if p == n {
			return
		}
		if n < p {
			hi = p - 1
		} else {
			lo = p + 1
		}
	}
}

func partition(a []*Stop, lo, hi, pivot, ax int) int {
	pv := a[pivot]
	a[pivot], a[hi] = a[hi], a[pivot]
	i := lo
	for j := lo; j < hi; j++ {
		if lessStop(a[j], pv, ax) {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

func lessStop(x, y *Stop, ax int) bool {
	if ax == axisLon {
		return x.Lon < y.Lon
	}
	return x.Lat < y.Lat
}

// withinRadius appends every stop within radiusKM of the query point to out.
// Subtrees are skipped only when the splitting plane is provably farther
// away than the radius, so stops sharing coordinates are all collected.
func withinRadius(node *kdNode, lat, lon, radiusKM float64, out []StopDistance) []StopDistance {
	if node == nil {
		return out
	}
	d := haversine(lat, lon, node.stop.Lat, node.stop.Lon)
	if d <= radiusKM {
		out = append(out, StopDistance{Stop: node.stop, DistanceKM: d})
	}
	var q, split float64
	if node.ax == axisLon {
		q, split = lon, node.stop.Lon
	} else {
		q, split = lat, node.stop.Lat
	}
	first, second := node.l, node.r
	if q > split {
		first, second = node.r, node.l
	}
	out = withinRadius(first, lat, lon, radiusKM, out)
	if planeDistKM(node.ax, split, lat, lon) <= radiusKM {
		out = withinRadius(second, lat, lon, radiusKM, out)
	}
	return out
}

// planeDistKM lower-bounds the surface distance from the query point to the
// splitting meridian or parallel. Longitude degrees shrink with latitude,
// hence the cosine scaling on the longitude axis.
func planeDistKM(ax int, split, lat, lon float64) float64 {
	if ax == axisLon {
		return math.Abs(lon-split) * kmPerDegree * math.Cos(lat*math.Pi/180)
	}
	return math.Abs(lat-split) * kmPerDegree
}

// haversine returns the great-circle distance between two points in kilometres.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}
