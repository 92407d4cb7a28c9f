package graphqlapi

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/chronograph/pkg/view"
	"github.com/dd0wney/chronograph/pkg/window"
)

// windowFromArgs turns the optional start/end field args into a Window,
// treating either bound's absence as unbounded on that side.
func windowFromArgs(startArg, endArg any) window.Window {
	start := window.Unbounded.Start
	end := window.Unbounded.End
	if v, ok := startArg.(int); ok {
		start = int64(v)
	}
	if v, ok := endArg.(int); ok {
		end = int64(v)
	}
	return window.New(start, end)
}

func resolveVertexID(p graphql.ResolveParams) (interface{}, error) {
	v, ok := p.Source.(view.VertexView)
	if !ok {
		return nil, fmt.Errorf("graphqlapi: unexpected source type for Vertex.id")
	}
	return fmt.Sprintf("%d", v.Id()), nil
}

func resolveOutDegree(p graphql.ResolveParams) (interface{}, error) {
	v, ok := p.Source.(view.VertexView)
	if !ok {
		return nil, nil
	}
	return v.OutDegree()
}

func resolveInDegree(p graphql.ResolveParams) (interface{}, error) {
	v, ok := p.Source.(view.VertexView)
	if !ok {
		return nil, nil
	}
	return v.InDegree()
}

func resolveOutNeighbours(p graphql.ResolveParams) (interface{}, error) {
	v, ok := p.Source.(view.VertexView)
	if !ok {
		return nil, nil
	}
	return view.Collect(v.OutNeighbours()), nil
}

func resolveInNeighbours(p graphql.ResolveParams) (interface{}, error) {
	v, ok := p.Source.(view.VertexView)
	if !ok {
		return nil, nil
	}
	return view.Collect(v.InNeighbours()), nil
}

func resolvePropertyHistory(p graphql.ResolveParams) (interface{}, error) {
	v, ok := p.Source.(view.VertexView)
	if !ok {
		return nil, nil
	}
	name, _ := p.Args["name"].(string)
	hist, err := v.PropertyHistory(name)
	if err != nil {
		return nil, err
	}
	return hist, nil
}

func resolveObservationTime(p graphql.ResolveParams) (interface{}, error) {
	tv, ok := p.Source.(view.TimeValue)
	if !ok {
		return nil, nil
	}
	return tv.Time, nil
}

func resolveObservationValue(p graphql.ResolveParams) (interface{}, error) {
	tv, ok := p.Source.(view.TimeValue)
	if !ok {
		return nil, nil
	}
	return tv.Value, nil
}

func resolveEdgeSrcID(p graphql.ResolveParams) (interface{}, error) {
	e, ok := p.Source.(view.EdgeView)
	if !ok {
		return nil, fmt.Errorf("graphqlapi: unexpected source type for Edge.src")
	}
	return fmt.Sprintf("%d", e.SrcId()), nil
}

func resolveEdgeDstID(p graphql.ResolveParams) (interface{}, error) {
	e, ok := p.Source.(view.EdgeView)
	if !ok {
		return nil, fmt.Errorf("graphqlapi: unexpected source type for Edge.dst")
	}
	return fmt.Sprintf("%d", e.DstId()), nil
}

func resolveEdgePropertyHistory(p graphql.ResolveParams) (interface{}, error) {
	e, ok := p.Source.(view.EdgeView)
	if !ok {
		return nil, nil
	}
	name, _ := p.Args["name"].(string)
	return e.PropertyHistory(name)
}

func resolveOutEdges(p graphql.ResolveParams) (interface{}, error) {
	v, ok := p.Source.(view.VertexView)
	if !ok {
		return nil, nil
	}
	return view.Collect(v.OutEdges()), nil
}

func resolveInEdges(p graphql.ResolveParams) (interface{}, error) {
	v, ok := p.Source.(view.VertexView)
	if !ok {
		return nil, nil
	}
	return view.Collect(v.InEdges()), nil
}
