package profiles

import "strconv"

// roadTypeMaxSpeed. fallback speed (km/h) per osm highway class when the
// maxspeed tag is missing or unparseable.
func roadTypeMaxSpeed(roadType string) float64 {
	switch roadType {
	case "motorway":
		return 95
	case "trunk":
		return 85
	case "primary":
		return 75
	case "secondary":
		return 65
	case "tertiary":
		return 50
	case "unclassified":
		return 50
	case "residential":
		return 30
	case "service":
		return 20
	case "motorway_link":
		return 90
	case "trunk_link":
		return 80
	case "primary_link":
		return 70
	case "secondary_link":
		return 60
	case "tertiary_link":
		return 50
	case "living_street":
		return 20
	default:
		return 40
	}
}

// CarProfile is the built-in fastest-car cost model: the factor is
// seconds per meter at the edge speed, so route weights come out in
// seconds.
type CarProfile struct{}

func NewCarProfile() CarProfile {
	return CarProfile{}
}

func (CarProfile) Name() string {
	return "car"
}

func (CarProfile) Factor(attrs EdgeAttributes) Factor {
	highway, ok := attrs.Get("highway")
	if !ok {
		return Factor{Value: 0, Direction: DirectionNone}
	}

	switch highway {
	case "footway", "pedestrian", "cycleway", "path", "steps":
		return Factor{Value: 0, Direction: DirectionNone}
	}

	if access, ok := attrs.Get("access"); ok && (access == "no" || access == "private") {
		return Factor{Value: 0, Direction: DirectionNone}
	}

	speedKmh := roadTypeMaxSpeed(highway)
	if ms, ok := attrs.Get("maxspeed"); ok {
		if parsed, err := strconv.ParseFloat(ms, 64); err == nil && parsed > 0 {
			speedKmh = parsed
		}
	}

	direction := DirectionBoth
	switch oneway, _ := attrs.Get("oneway"); oneway {
	case "yes", "true", "1":
		direction = DirectionForward
	case "-1", "reverse":
		direction = DirectionBackward
	}
	if highway == "motorway" || highway == "motorway_link" {
		// motorways are implicitly oneway unless tagged otherwise
		if _, tagged := attrs.Get("oneway"); !tagged {
			direction = DirectionForward
		}
	}

	speedMs := speedKmh / 3.6
	return Factor{Value: 1.0 / speedMs, Direction: direction}
}

// CanStop forbids starting or ending a route on motorways, trunks and
// their links.
func (CarProfile) CanStop(attrs EdgeAttributes) bool {
	highway, _ := attrs.Get("highway")
	switch highway {
	case "motorway", "motorway_link", "trunk", "trunk_link":
		return false
	}
	return true
}

// ShortestProfile weighs every traversable edge by bare distance.
type ShortestProfile struct{}

func NewShortestProfile() ShortestProfile {
	return ShortestProfile{}
}

func (ShortestProfile) Name() string {
	return "shortest"
}

func (ShortestProfile) Factor(attrs EdgeAttributes) Factor {
	if _, ok := attrs.Get("highway"); !ok {
		return Factor{Value: 0, Direction: DirectionNone}
	}

	direction := DirectionBoth
	switch oneway, _ := attrs.Get("oneway"); oneway {
	case "yes", "true", "1":
		direction = DirectionForward
	case "-1", "reverse":
		direction = DirectionBackward
	}

	return Factor{Value: 1.0, Direction: direction}
}

func (ShortestProfile) CanStop(EdgeAttributes) bool {
	return true
}
