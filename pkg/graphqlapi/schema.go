package graphqlapi

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/view"
)

// GenerateSchema builds the read-only GraphQL schema for g: a root Query
// type with a single-vertex lookup, a full vertex listing, and a
// single-edge lookup, each accepting an optional [start, end) window.
// Mirrors the teacher schema's one-package-function GenerateSchema entry
// point, but the vertex/edge shape here comes from the spec's temporal
// graph rather than label-typed storage nodes, so there is one Vertex type
// and one Edge type instead of one generated per label.
func GenerateSchema(g *graph.Graph) (graphql.Schema, error) {
	root := view.NewBase(g)

	queryFields := graphql.Fields{
		"vertex": &graphql.Field{
			Type: vertexType,
			Args: mergeArgs(graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			}, windowArgs),
			Resolve: resolveVertexField(root),
		},
		"vertices": &graphql.Field{
			Type:    graphql.NewList(vertexType),
			Args:    windowArgs,
			Resolve: resolveVerticesField(root),
		},
		"edge": &graphql.Field{
			Type: edgeType,
			Args: mergeArgs(graphql.FieldConfigArgument{
				"src": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"dst": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			}, windowArgs),
			Resolve: resolveEdgeField(root),
		},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: queryFields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

func mergeArgs(sets ...graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	merged := graphql.FieldConfigArgument{}
	for _, set := range sets {
		for name, arg := range set {
			merged[name] = arg
		}
	}
	return merged
}

func resolveVertexField(root view.GraphView) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		idArg, _ := p.Args["id"].(string)
		gid, err := parseGid(idArg)
		if err != nil {
			return nil, err
		}
		v := viewFromArgs(root, p.Args)
		vv, ok := v.Vertex(gid)
		if !ok {
			return nil, nil
		}
		return vv, nil
	}
}

func resolveVerticesField(root view.GraphView) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		v := viewFromArgs(root, p.Args)
		return view.Collect(v.Vertices().Seq()), nil
	}
}

func resolveEdgeField(root view.GraphView) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		srcArg, _ := p.Args["src"].(string)
		dstArg, _ := p.Args["dst"].(string)
		src, err := parseGid(srcArg)
		if err != nil {
			return nil, err
		}
		dst, err := parseGid(dstArg)
		if err != nil {
			return nil, err
		}
		v := viewFromArgs(root, p.Args)
		ev, ok := v.Edge(src, dst)
		if !ok {
			return nil, nil
		}
		return ev, nil
	}
}

func parseGid(s string) (uint64, error) {
	var gid uint64
	if _, err := fmt.Sscanf(s, "%d", &gid); err != nil {
		return 0, fmt.Errorf("graphqlapi: invalid vertex id %q: %w", s, err)
	}
	return gid, nil
}
