package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"position":   &graphql.Field{Type: geoPointType},
			"kind":       &graphql.Field{Type: graphql.String},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	annotationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Annotation",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"vertices":   &graphql.Field{Type: graphql.NewList(geoPointType)},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSummary",
		Fields: graphql.Fields{
			"distance_meters":  &graphql.Field{Type: graphql.Float},
			"duration_seconds": &graphql.Field{Type: graphql.Float},
			"instructions":     &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSession",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"origin":      &graphql.Field{Type: geoPointType},
			"destination": &graphql.Field{Type: geoPointType},
			"status":      &graphql.Field{Type: graphql.String},
			"polyline":    &graphql.Field{Type: graphql.NewList(geoPointType)},
			"summary":     &graphql.Field{Type: summaryType},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{Type: geoPointType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"markers": &graphql.Field{
				Type:        graphql.NewList(markerType),
				Description: "All markers on the map",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Store.Markers(), nil
				},
			},
			"selectedMarker": &graphql.Field{
				Type:        markerType,
				Description: "The marker selected as route target, if any",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if m, ok := deps.Store.SelectedMarker(); ok {
						return m, nil
					}
					return nil, nil
				},
			},
			"markersNearby": &graphql.Field{
				Type:        graphql.NewList(markerType),
				Description: "Markers within a radius of a point",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lng := p.Args["lng"].(float64)
					radius := p.Args["radius"].(float64)
					return deps.Store.MarkersNear(domain.GeoPoint{Lat: lat, Lng: lng}, radius), nil
				},
			},
			"annotations": &graphql.Field{
				Type:        graphql.NewList(annotationType),
				Description: "All drawn annotations",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Store.Annotations(), nil
				},
			},
			"route": &graphql.Field{
				Type:        sessionType,
				Description: "The current route session",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s := deps.Routes.CurrentSession(); s != nil {
						return s, nil
					}
					return nil, nil
				},
			},
			"search": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Geocode a free-text place query",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Search.Search(p.Context, q, limit)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
