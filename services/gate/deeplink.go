package gate

import (
	"net/url"
	"regexp"
	"strings"
)

// HomePath is where unknown deep links land.
const HomePath = "/"

var detailRoutes = map[string]string{
	"restaurant":       "/restaurant/",
	"event":            "/events/",
	"ticket":           "/tickets/",
	"certificate":      "/certificates/landing/",
	"event_city":       "/events/city/",
	"event_restaurant": "/events/restaurant/",
}

var keywordRoutes = map[string]string{
	"hospitality_heroes": "/hospitalityHeroes",
	"banquet":            "/banquets/address",
	"gastronomy":         "/gastronomy",
	"certificates":       "/certificates",
	"booking":            "/booking",
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// DeepLink is a parsed launch parameter.
type DeepLink struct {
	Kind string
	ID   string
	Path string
}

// ParseDeepLink maps a launch parameter of the form {type}Id_{id} or a fixed keyword to a route.
// Unrecognized values resolve to HomePath with ok=false.
func ParseDeepLink(param string) (DeepLink, bool) {
	param = strings.TrimSpace(param)
	if route, ok := keywordRoutes[param]; ok {
		return DeepLink{Kind: param, Path: route}, true
	}

	kind, id, found := strings.Cut(param, "Id_")
	if !found || id == "" || !idPattern.MatchString(id) {
		return DeepLink{Path: HomePath}, false
	}
	prefix, ok := detailRoutes[kind]
	if !ok {
		return DeepLink{Path: HomePath}, false
	}

	q := url.Values{}
	q.Set("shared", "true")
	return DeepLink{
		Kind: kind,
		ID:   id,
		Path: prefix + url.PathEscape(id) + "?" + q.Encode(),
	}, true
}

// StartParam builds the launch parameter for a detail page, the inverse of ParseDeepLink.
func StartParam(kind, id string) string {
	return kind + "Id_" + id
}
