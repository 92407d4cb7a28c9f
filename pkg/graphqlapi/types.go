// Package graphqlapi exposes a read-only GraphQL surface over the sharded
// graph store: vertices, their neighbours and property histories, scoped
// to an optional time window. It never mutates the graph; ingestion has
// its own facade in package ingestapi.
package graphqlapi

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/chronograph/pkg/view"
)

// propertyObservationType renders one (time, value) entry from a
// property's history. Value is already string-rendered by the view
// layer's TimeValue, matching the teacher schema's choice to surface
// dynamically-typed properties as strings rather than a GraphQL union.
var propertyObservationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PropertyObservation",
	Fields: graphql.Fields{
		"time": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.Int),
			Resolve: resolveObservationTime,
		},
		"value": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.String),
			Resolve: resolveObservationValue,
		},
	},
})

// edgeType renders a view.EdgeView: its endpoint ids and its own
// property history, windowed the same way the vertex it was reached
// through was.
var edgeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Edge",
	Fields: graphql.Fields{
		"src": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: resolveEdgeSrcID,
		},
		"dst": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: resolveEdgeDstID,
		},
		"properties": &graphql.Field{
			Type: graphql.NewList(propertyObservationType),
			Args: graphql.FieldConfigArgument{
				"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: resolveEdgePropertyHistory,
		},
	},
})

// vertexType is declared without its neighbour/edge fields first and
// wired up in init, since OutNeighbours/InNeighbours refer back to
// Vertex itself.
var vertexType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Vertex",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: resolveVertexID,
		},
		"outDegree": &graphql.Field{
			Type:    graphql.Int,
			Resolve: resolveOutDegree,
		},
		"inDegree": &graphql.Field{
			Type:    graphql.Int,
			Resolve: resolveInDegree,
		},
		"properties": &graphql.Field{
			Type: graphql.NewList(propertyObservationType),
			Args: graphql.FieldConfigArgument{
				"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: resolvePropertyHistory,
		},
	},
})

func init() {
	vertexType.AddFieldConfig("outNeighbours", &graphql.Field{
		Type:    graphql.NewList(vertexType),
		Resolve: resolveOutNeighbours,
	})
	vertexType.AddFieldConfig("inNeighbours", &graphql.Field{
		Type:    graphql.NewList(vertexType),
		Resolve: resolveInNeighbours,
	})
	vertexType.AddFieldConfig("outEdges", &graphql.Field{
		Type:    graphql.NewList(edgeType),
		Resolve: resolveOutEdges,
	})
	vertexType.AddFieldConfig("inEdges", &graphql.Field{
		Type:    graphql.NewList(edgeType),
		Resolve: resolveInEdges,
	})
}

// windowArgs are the optional [start, end) bounds accepted by every query
// field; omitting both yields the unbounded view.
var windowArgs = graphql.FieldConfigArgument{
	"start": &graphql.ArgumentConfig{Type: graphql.Int},
	"end":   &graphql.ArgumentConfig{Type: graphql.Int},
}

// viewFromArgs builds the GraphView a resolver should query against: the
// unbounded root view by default, or a WindowedView when the caller
// supplied start/end.
func viewFromArgs(root view.GraphView, args map[string]any) view.GraphView {
	startArg, hasStart := args["start"]
	endArg, hasEnd := args["end"]
	if !hasStart && !hasEnd {
		return root
	}
	return view.NewWindowedView(root, windowFromArgs(startArg, endArg))
}
