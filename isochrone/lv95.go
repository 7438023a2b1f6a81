package isochrone

// Approximate conversions between WGS84 and the Swiss LV95 projection,
// using the published swisstopo series expansions. Accurate to about a
// metre across Switzerland, which is far below the walking-distance
// granularity the isochrone rendering works at.

// wgs84ToLV95 converts latitude/longitude degrees to LV95
// easting/northing metres.
func wgs84ToLV95(lat, lon float64) (east, north float64) {
	phi := (lat*3600 - 169028.66) / 10000
	lambda := (lon*3600 - 26782.5) / 10000

	east = 2600072.37 +
		211455.93*lambda -
		10938.51*lambda*phi -
		0.36*lambda*phi*phi -
		44.54*lambda*lambda*lambda
	north = 1200147.07 +
		308807.95*phi +
		3745.25*lambda*lambda +
		76.63*phi*phi -
		194.56*lambda*lambda*phi +
		119.79*phi*phi*phi
	return east, north
}

// lv95ToWGS84 converts LV95 easting/northing metres to
// latitude/longitude degrees.
func lv95ToWGS84(east, north float64) (lat, lon float64) {
	y := (east - 2600000) / 1000000
	x := (north - 1200000) / 1000000

	lambda := 2.6779094 +
		4.728982*y +
		0.791484*y*x +
		0.1306*y*x*x -
		0.0436*y*y*y
	phi := 16.9023892 +
		3.238272*x -
		0.270978*y*y -
		0.002528*x*x -
		0.0447*y*y*x -
		0.0140*x*x*x

	return phi * 100 / 36, lambda * 100 / 36
}
