// Package graph provides typed access to an RDF graph engine.
//
// Engine values are turned into NamedNode and LiteralNode values by a Caster,
// the only place that converts between the two. A Session ties a Caster to an
// Engine and a GraphContext, the stack of active graphs that
// WithActiveGraph pushes and pops:
//
//	s := graph.NewSession(engine)
//	err := s.WithActiveGraph("urn:x-graph:shapes", func() error {
//		shapes, err := s.ShapesFor(node)
//		...
//	})
//
// A Session belongs to one request and must not be used concurrently.
package graph
