package property

import "github.com/cespare/xxhash/v2"

// nameID is an interned diagnostic name. Nodes carry the 8-byte id instead
// of a string; the Graph keeps the reverse mapping for error reporting.
type nameID uint64

func (g *Graph) internName(name string) nameID {
	if name == "" {
		return 0
	}
	id := nameID(xxhash.Sum64String(name))
	g.names[id] = name
	return id
}

func (g *Graph) nameOf(id nameID) string {
	if s, ok := g.names[id]; ok {
		return s
	}
	return "<unnamed>"
}
