package partition

import (
	"github.com/brakepad/microgen/io"
)

// Options are the optional parts of a partition.
type Options struct {
	// MaterialNodeGroups adds a "<material>_nodes" group per material.
	MaterialNodeGroups bool
	// QualityRows keeps the quality of every element, not just the counts.
	QualityRows bool
}

// QualityStats counts elements by quality.
type QualityStats struct {
	Total, Bad, Degenerate int
}

// Partition is a mesh sorted into named groups of nodes and elements.
type Partition struct {
	NodeGroups, ElementGroups []io.Group
	Quality                   QualityStats
	// QualityRows is only filled in if Options.QualityRows is set.
	QualityRows []io.QualityRow
}

// Build partitions a mesh. Nodes are visited in order of increasing id and
// elements in file order, so group contents are sorted. Every node gets
// exactly one region group (matrix_nodes, piston_nodes, or a material) in
// addition to whichever boundary groups it touches. Elements are assigned
// by their centroid.
func Build(mesh *io.Mesh, c *Classifier, opts Options) *Partition {
	nMat := len(c.Materials())

	boundary := [NumBoundaries][]int{}
	matrixNodes, pistonNodes := []int{}, []int{}
	matNodes := make([][]int, nMat)

	for _, id := range mesh.NodeIDs {
		v := mesh.Nodes[id]

		in := c.Boundaries(v)
		for b := range in {
			if in[b] {
				boundary[b] = append(boundary[b], id)
			}
		}

		switch region := c.Classify(v); region {
		case Piston:
			pistonNodes = append(pistonNodes, id)
		case Matrix:
			matrixNodes = append(matrixNodes, id)
		default:
			matNodes[region] = append(matNodes[region], id)
		}
	}

	p := &Partition{}
	for b := Boundary(0); b < NumBoundaries; b++ {
		p.NodeGroups = append(p.NodeGroups,
			io.Group{Name: b.String(), IDs: nonNil(boundary[b])})
	}
	p.NodeGroups = append(p.NodeGroups,
		io.Group{Name: "matrix_nodes", IDs: matrixNodes},
		io.Group{Name: "piston_nodes", IDs: pistonNodes},
	)
	if opts.MaterialNodeGroups {
		for i, name := range c.Materials() {
			p.NodeGroups = append(p.NodeGroups,
				io.Group{Name: name + "_nodes", IDs: nonNil(matNodes[i])})
		}
	}

	matrixElems, pistonElems := []int{}, []int{}
	matElems := make([][]int, nMat)
	if opts.QualityRows {
		p.QualityRows = make([]io.QualityRow, 0, len(mesh.Elements))
	}

	for i := range mesh.Elements {
		id := i + 1
		tet := mesh.Tetra(i)

		switch region := c.Classify(tet.Centroid()); region {
		case Piston:
			pistonElems = append(pistonElems, id)
		case Matrix:
			matrixElems = append(matrixElems, id)
		default:
			matElems[region] = append(matElems[region], id)
		}

		q := tet.Quality()
		p.Quality.Total++
		if q.Bad {
			p.Quality.Bad++
		}
		if q.Degenerate {
			p.Quality.Degenerate++
		}
		if opts.QualityRows {
			p.QualityRows = append(p.QualityRows,
				io.QualityRow{ID: id, Quality: q, Volume: tet.Volume()})
		}
	}

	p.ElementGroups = append(p.ElementGroups,
		io.Group{Name: "matrix", IDs: matrixElems},
		io.Group{Name: "Piston", IDs: pistonElems},
	)
	for i, name := range c.Materials() {
		p.ElementGroups = append(p.ElementGroups,
			io.Group{Name: name, IDs: nonNil(matElems[i])})
	}

	return p
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
