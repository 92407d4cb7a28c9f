// Package snapshot persists a Graph's full event history to a compact,
// portable binary format and restores it by replaying those events
// against a fresh Graph. It is the periodic-compaction counterpart to the
// store's append-only ingestion path: a snapshot is not a different
// representation of state, it is the same events, replayed.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/tgraph"
	"github.com/dd0wney/chronograph/pkg/tprop"
)

// magic identifies the snapshot body format, read back by Load to reject
// files written by an incompatible version.
const magic = "CGS1"

// timeEvent is one distinct timestamp at which gid was touched, with
// every property update applied at exactly that timestamp.
type timeEvent struct {
	t     int64
	props []tgraph.PropUpdate
}

// encode serializes g's full event history: every vertex's touch/property
// timeline, then every edge's.
func encode(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	writeUint32(&buf, uint32(g.ShardCount()))

	gids := g.IterVertices()
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })
	writeUint32(&buf, uint32(len(gids)))
	for _, gid := range gids {
		if err := encodeVertex(&buf, g, gid); err != nil {
			return nil, fmt.Errorf("encode vertex %d: %w", gid, err)
		}
	}

	edges := g.IterEdges()
	writeUint32(&buf, uint32(len(edges)))
	for _, e := range edges {
		if err := encodeEdge(&buf, g, e); err != nil {
			return nil, fmt.Errorf("encode edge %d->%d: %w", e.Src, e.Dst, err)
		}
	}
	return buf.Bytes(), nil
}

func encodeVertex(buf *bytes.Buffer, g *graph.Graph, gid uint64) error {
	events, err := timeEvents(g, gid)
	if err != nil {
		return err
	}
	writeUint64(buf, gid)
	writeUint32(buf, uint32(len(events)))
	for _, ev := range events {
		writeInt64(buf, ev.t)
		writeUint32(buf, uint32(len(ev.props)))
		for _, p := range ev.props {
			writeString(buf, p.Name)
			if err := encodeProp(buf, p.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeEdge(buf *bytes.Buffer, g *graph.Graph, e tgraph.EdgeGids) error {
	events, err := edgeEvents(g, e.Src, e.Dst)
	if err != nil {
		return err
	}
	writeUint64(buf, e.Src)
	writeUint64(buf, e.Dst)
	writeUint32(buf, uint32(len(events)))
	for _, ev := range events {
		writeInt64(buf, ev.t)
		writeUint32(buf, uint32(len(ev.props)))
		for _, p := range ev.props {
			writeString(buf, p.Name)
			if err := encodeProp(buf, p.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// timeEvents merges gid's bare touch times with its full, duplicate-
// preserving property history into one time-ordered event list, so replay
// can reconstruct the exact property sequence with one AddVertex call per
// distinct timestamp.
func timeEvents(g *graph.Graph, gid uint64) ([]timeEvent, error) {
	touchTimes, err := g.VertexTouchTimes(gid)
	if err != nil {
		return nil, err
	}
	names, err := g.PropertyNames(gid)
	if err != nil {
		return nil, err
	}
	byTime := make(map[int64][]tgraph.PropUpdate)
	for _, t := range touchTimes {
		if _, ok := byTime[t]; !ok {
			byTime[t] = nil
		}
	}
	for _, name := range names {
		hist, err := g.PropertyHistory(gid, name)
		if err != nil {
			return nil, err
		}
		for _, tv := range hist {
			byTime[tv.Time] = append(byTime[tv.Time], tgraph.PropUpdate{Name: name, Value: tv.Value})
		}
	}
	return flattenEvents(byTime), nil
}

func edgeEvents(g *graph.Graph, src, dst uint64) ([]timeEvent, error) {
	touchTimes, err := g.EdgeTouchTimes(src, dst)
	if err != nil {
		return nil, err
	}
	names, err := g.EdgePropertyNames(src, dst)
	if err != nil {
		return nil, err
	}
	byTime := make(map[int64][]tgraph.PropUpdate)
	for _, t := range touchTimes {
		if _, ok := byTime[t]; !ok {
			byTime[t] = nil
		}
	}
	for _, name := range names {
		hist, err := g.EdgePropertyHistory(src, dst, name)
		if err != nil {
			return nil, err
		}
		for _, tv := range hist {
			byTime[tv.Time] = append(byTime[tv.Time], tgraph.PropUpdate{Name: name, Value: tv.Value})
		}
	}
	return flattenEvents(byTime), nil
}

func flattenEvents(byTime map[int64][]tgraph.PropUpdate) []timeEvent {
	times := make([]int64, 0, len(byTime))
	for t := range byTime {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	events := make([]timeEvent, len(times))
	for i, t := range times {
		events[i] = timeEvent{t: t, props: byTime[t]}
	}
	return events
}

// decode replays a serialized event history onto a freshly created Graph
// with the same shard count the snapshot was taken with.
func decode(data []byte) (*graph.Graph, error) {
	r := bytes.NewReader(data)
	got := make([]byte, len(magic))
	if _, err := io.ReadFull(r, got); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if string(got) != magic {
		return nil, fmt.Errorf("not a chronograph snapshot (bad magic %q)", got)
	}

	shardCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read shard count: %w", err)
	}
	g := graph.New(int(shardCount))

	vertexCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read vertex count: %w", err)
	}
	for i := uint32(0); i < vertexCount; i++ {
		if err := decodeVertex(r, g); err != nil {
			return nil, fmt.Errorf("decode vertex %d: %w", i, err)
		}
	}

	edgeCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read edge count: %w", err)
	}
	for i := uint32(0); i < edgeCount; i++ {
		if err := decodeEdge(r, g); err != nil {
			return nil, fmt.Errorf("decode edge %d: %w", i, err)
		}
	}
	return g, nil
}

func decodeVertex(r *bytes.Reader, g *graph.Graph) error {
	gid, err := readUint64(r)
	if err != nil {
		return err
	}
	events, err := readEvents(r)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := g.AddVertex(ev.t, gid, ev.props); err != nil {
			return err
		}
	}
	return nil
}

func decodeEdge(r *bytes.Reader, g *graph.Graph) error {
	src, err := readUint64(r)
	if err != nil {
		return err
	}
	dst, err := readUint64(r)
	if err != nil {
		return err
	}
	events, err := readEvents(r)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := g.AddEdge(ev.t, src, dst, ev.props); err != nil {
			return err
		}
	}
	return nil
}

func readEvents(r *bytes.Reader) ([]timeEvent, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	events := make([]timeEvent, count)
	for i := uint32(0); i < count; i++ {
		t, err := readInt64(r)
		if err != nil {
			return nil, err
		}
		propCount, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		props := make([]tgraph.PropUpdate, propCount)
		for j := uint32(0); j < propCount; j++ {
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			value, err := decodeProp(r)
			if err != nil {
				return nil, err
			}
			props[j] = tgraph.PropUpdate{Name: name, Value: value}
		}
		events[i] = timeEvent{t: t, props: props}
	}
	return events, nil
}

// encodeProp writes a Prop as [kind:1][payload]. Strings carry a uint32
// length prefix; every other variant is a fixed-width field.
func encodeProp(buf *bytes.Buffer, p tprop.Prop) error {
	buf.WriteByte(byte(p.Kind))
	switch p.Kind {
	case tprop.Str:
		v, _ := p.AsStr()
		writeString(buf, v)
	case tprop.I32:
		v, _ := p.AsI32()
		writeInt32(buf, v)
	case tprop.I64:
		v, _ := p.AsI64()
		writeInt64(buf, v)
	case tprop.U32:
		v, _ := p.AsU32()
		writeUint32(buf, v)
	case tprop.U64:
		v, _ := p.AsU64()
		writeUint64(buf, v)
	case tprop.F32:
		v, _ := p.AsF32()
		writeUint32(buf, math.Float32bits(v))
	case tprop.F64:
		v, _ := p.AsF64()
		writeUint64(buf, math.Float64bits(v))
	case tprop.Bool:
		v, _ := p.AsBool()
		b := byte(0)
		if v {
			b = 1
		}
		buf.WriteByte(b)
	default:
		return fmt.Errorf("unknown prop kind %d", p.Kind)
	}
	return nil
}

func decodeProp(r *bytes.Reader) (tprop.Prop, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return tprop.Prop{}, err
	}
	kind := tprop.Kind(kindByte)
	switch kind {
	case tprop.Str:
		v, err := readString(r)
		if err != nil {
			return tprop.Prop{}, err
		}
		return tprop.StrProp(v), nil
	case tprop.I32:
		v, err := readInt32(r)
		if err != nil {
			return tprop.Prop{}, err
		}
		return tprop.I32Prop(v), nil
	case tprop.I64:
		v, err := readInt64(r)
		if err != nil {
			return tprop.Prop{}, err
		}
		return tprop.I64Prop(v), nil
	case tprop.U32:
		v, err := readUint32(r)
		if err != nil {
			return tprop.Prop{}, err
		}
		return tprop.U32Prop(v), nil
	case tprop.U64:
		v, err := readUint64(r)
		if err != nil {
			return tprop.Prop{}, err
		}
		return tprop.U64Prop(v), nil
	case tprop.F32:
		v, err := readUint32(r)
		if err != nil {
			return tprop.Prop{}, err
		}
		return tprop.F32Prop(math.Float32frombits(v)), nil
	case tprop.F64:
		v, err := readUint64(r)
		if err != nil {
			return tprop.Prop{}, err
		}
		return tprop.F64Prop(math.Float64frombits(v)), nil
	case tprop.Bool:
		b, err := r.ReadByte()
		if err != nil {
			return tprop.Prop{}, err
		}
		return tprop.BoolProp(b != 0), nil
	default:
		return tprop.Prop{}, fmt.Errorf("unknown prop kind %d", kindByte)
	}
}

func writeUint32(buf *bytes.Buffer, v uint32) { _ = binary.Write(buf, binary.LittleEndian, v) }
func writeUint64(buf *bytes.Buffer, v uint64) { _ = binary.Write(buf, binary.LittleEndian, v) }
func writeInt32(buf *bytes.Buffer, v int32)   { _ = binary.Write(buf, binary.LittleEndian, v) }
func writeInt64(buf *bytes.Buffer, v int64)   { _ = binary.Write(buf, binary.LittleEndian, v) }

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readInt32(r *bytes.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readInt64(r *bytes.Reader) (int64, error) {
	var v int64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
