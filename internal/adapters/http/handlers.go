package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/usecases"
)

// pointPayload is a client-supplied coordinate. Pointers keep "field
// missing" apart from a legitimate zero coordinate.
type pointPayload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p pointPayload) toGeoPoint() (domain.GeoPoint, bool) {
	if p.Lat == nil || p.Lng == nil {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lat: *p.Lat, Lng: *p.Lng}, true
}

func parsePoints(raw []pointPayload) ([]domain.GeoPoint, bool) {
	out := make([]domain.GeoPoint, 0, len(raw))
	for _, p := range raw {
		pt, ok := p.toGeoPoint()
		if !ok {
			return nil, false
		}
		out = append(out, pt)
	}
	return out, true
}

// ListMarkersHandler returns all markers, paginated.
func ListMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		markers := deps.Store.Markers()

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		total := len(markers)
		if offset >= total {
			markers = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			markers = markers[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: markers, Pagination: pg})
	}
}

// NearbyMarkersHandler returns markers within a radius of a point.
func NearbyMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lng := c.QueryFloat("lng", 0)
		radius := c.QueryFloat("radius", 500)

		if c.Query("lat") == "" || c.Query("lng") == "" {
			return errBadRequest(c, "lat and lng are required")
		}
		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}

		markers := deps.Store.MarkersNear(domain.GeoPoint{Lat: lat, Lng: lng}, radius)
		c.Set("Cache-Control", "public, max-age=10")
		return c.JSON(markers)
	}
}

// MapClickHandler drops a placed marker where the map was clicked.
func MapClickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body pointPayload
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		pos, ok := body.toGeoPoint()
		if !ok {
			return errBadRequest(c, "lat and lng are required")
		}

		marker := deps.Interactions.HandleMapClick(c.Context(), pos)
		return c.Status(201).JSON(marker)
	}
}

// MarkerClickHandler applies the active click mode to a marker: select
// it as the route target, or remove it.
func MarkerClickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "marker id is required")
		}

		deps.Interactions.HandleMarkerClick(c.Context(), id)
		return c.JSON(fiber.Map{
			"mode":        deps.Interactions.Mode(),
			"selected_id": deps.Store.SelectedID(),
		})
	}
}

// SelectMarkerHandler selects a marker regardless of the click mode.
func SelectMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "marker id is required")
		}

		deps.Store.SelectMarker(id)
		selected, ok := deps.Store.SelectedMarker()
		if !ok || selected.ID != id {
			return errNotFound(c, "marker not found")
		}
		return c.JSON(selected)
	}
}

// DeleteMarkerHandler removes a marker. Removing an absent marker is a
// no-op and still answers 204.
func DeleteMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "marker id is required")
		}
		deps.Store.RemoveMarker(c.Context(), id)
		return c.SendStatus(204)
	}
}

// GetModeHandler returns the active click mode.
func GetModeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"mode": deps.Interactions.Mode()})
	}
}

// SetModeHandler switches the click mode.
func SetModeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Mode string `json:"mode"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Interactions.SetMode(usecases.ClickMode(body.Mode)); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(fiber.Map{"mode": deps.Interactions.Mode()})
	}
}

// ListAnnotationsHandler returns all drawn annotations, paginated.
func ListAnnotationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		annotations := deps.Store.Annotations()

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		total := len(annotations)
		if offset >= total {
			annotations = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			annotations = annotations[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: annotations, Pagination: pg})
	}
}

// DrawCreatedHandler stores a shape emitted by the drawing tool.
func DrawCreatedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Vertices []pointPayload `json:"vertices"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		vertices, ok := parsePoints(body.Vertices)
		if !ok {
			return errBadRequest(c, "every vertex needs lat and lng")
		}

		annotation, err := deps.Interactions.HandleDrawCreated(c.Context(), vertices)
		if err != nil {
			return errDomain(c, err)
		}
		return c.Status(201).JSON(annotation)
	}
}

// DrawDeletedHandler removes the stored annotations matching the
// deleted shapes. Shapes that match nothing are silently skipped.
func DrawDeletedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Shapes [][]pointPayload `json:"shapes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		shapes := make([][]domain.GeoPoint, 0, len(body.Shapes))
		for _, raw := range body.Shapes {
			vertices, ok := parsePoints(raw)
			if !ok {
				return errBadRequest(c, "every vertex needs lat and lng")
			}
			shapes = append(shapes, vertices)
		}

		removed := deps.Interactions.HandleDrawDeleted(c.Context(), shapes)
		return c.JSON(fiber.Map{"removed": removed})
	}
}

// GetPositionHandler returns the user marker, 404 while unknown.
func GetPositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pin, ok := deps.Store.UserPosition()
		if !ok {
			return errNotFound(c, "user position unknown")
		}
		return c.JSON(pin)
	}
}

// PutPositionHandler applies a position pushed by the device.
func PutPositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body pointPayload
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		pos, ok := body.toGeoPoint()
		if !ok {
			return errBadRequest(c, "lat and lng are required")
		}
		return c.JSON(deps.Interactions.SetUserPosition(c.Context(), pos))
	}
}

// LocatePositionHandler resolves the user position through the
// geolocation provider. With no hint the caller's own IP is located.
func LocatePositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Hint string `json:"hint"`
		}
		// Body is optional.
		_ = c.BodyParser(&body)

		pin, err := deps.Interactions.RefreshUserPosition(c.Context(), body.Hint)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(pin)
	}
}

// RequestRouteHandler starts a new route session. With origin and
// destination in the body they are used directly; without a body the
// route runs from the user position to the selected marker.
func RequestRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Origin      *pointPayload `json:"origin"`
			Destination *pointPayload `json:"destination"`
		}
		_ = c.BodyParser(&body)

		var session *domain.RouteSession
		var err error
		if body.Origin != nil || body.Destination != nil {
			var origin, dest *domain.GeoPoint
			if body.Origin != nil {
				if pt, ok := body.Origin.toGeoPoint(); ok {
					origin = &pt
				}
			}
			if body.Destination != nil {
				if pt, ok := body.Destination.toGeoPoint(); ok {
					dest = &pt
				}
			}
			session, err = deps.Routes.RequestRoute(c.Context(), origin, dest)
		} else {
			session, err = deps.Interactions.ComputeRoute(c.Context())
		}
		if err != nil {
			return errDomain(c, err)
		}
		return c.Status(201).JSON(session)
	}
}

// GetRouteHandler returns the current route session, 404 when idle.
func GetRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := deps.Routes.CurrentSession()
		if session == nil {
			return errNotFound(c, "no route session")
		}
		return c.JSON(session)
	}
}

// DeleteRouteHandler retires the route session and clears the target
// selection that produced it.
func DeleteRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Interactions.DeselectTarget()
		return c.SendStatus(204)
	}
}

// SearchHandler geocodes a free-text place query.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 10)

		places, err := deps.Search.Search(c.Context(), query, limit)
		if err != nil {
			return errDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(places)
	}
}
