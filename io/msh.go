package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/brakepad/microgen/geom"
)

// gmshTetra is the gmsh element type of a four-node tetrahedron.
const gmshTetra = "4"

// Mesh is the part of a gmsh 2.2 ASCII mesh that meshpart needs.
type Mesh struct {
	Nodes map[int]geom.Vec
	// NodeIDs are the keys of Nodes in increasing order.
	NodeIDs []int
	// Elements are the corner node ids of every tetrahedron, in file
	// order. Element i is renumbered to i + 1.
	Elements [][4]int

	SkippedNodes, SkippedElements int
}

// Tetra returns the tetrahedron of element i.
func (m *Mesh) Tetra(i int) *geom.Tetra {
	e := &m.Elements[i]
	return geom.NewTetra(
		m.Nodes[e[0]], m.Nodes[e[1]], m.Nodes[e[2]], m.Nodes[e[3]],
	)
}

func ReadMesh(fname string) (*Mesh, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open mesh file: %w", err)
	}
	defer f.Close()
	return ReadMeshFrom(f)
}

// ReadMeshFrom reads the $Nodes and $Elements sections of a gmsh 2.2 ASCII
// mesh. Node lines must be "id x y z". Element lines must be
// "id type ntags tag... n1 n2 n3 n4" with type 4; every other element, such
// as the triangles and lines gmsh writes for boundaries, is ignored. Malformed
// lines and tetrahedra which refer to unknown nodes are skipped and counted.
func ReadMeshFrom(r io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	found := false
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "$Nodes" {
			found = true
			break
		}
	}
	if !found {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("could not read mesh file: %w", err)
		}
		return nil, fmt.Errorf("mesh file has no $Nodes section")
	}

	if !scanner.Scan() {
		return nil, fmt.Errorf("mesh file ends before the node count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("bad node count '%s'", scanner.Text())
	}

	m := &Mesh{Nodes: make(map[int]geom.Vec, n)}
	for i := 0; i < n && scanner.Scan(); i++ {
		id, v, ok := parseNode(scanner.Text())
		if !ok {
			m.SkippedNodes++
			continue
		}
		m.Nodes[id] = v
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '$' {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) < 3 {
			continue
		}
		if cols[1] != gmshTetra {
			continue
		}

		elem, ok := parseTetra(cols)
		if !ok {
			m.SkippedElements++
			continue
		}
		for _, id := range elem {
			if _, known := m.Nodes[id]; !known {
				ok = false
			}
		}
		if !ok {
			m.SkippedElements++
			continue
		}
		m.Elements = append(m.Elements, elem)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read mesh file: %w", err)
	}

	m.NodeIDs = make([]int, 0, len(m.Nodes))
	for id := range m.Nodes {
		m.NodeIDs = append(m.NodeIDs, id)
	}
	sort.Ints(m.NodeIDs)

	return m, nil
}

func parseNode(line string) (int, geom.Vec, bool) {
	cols := strings.Fields(line)
	if len(cols) != 4 {
		return 0, geom.Vec{}, false
	}
	id, err := strconv.Atoi(cols[0])
	if err != nil {
		return 0, geom.Vec{}, false
	}
	var v geom.Vec
	for k := 0; k < 3; k++ {
		if v[k], err = strconv.ParseFloat(cols[k+1], 64); err != nil {
			return 0, geom.Vec{}, false
		}
	}
	return id, v, true
}

func parseTetra(cols []string) ([4]int, bool) {
	var elem [4]int
	ntags, err := strconv.Atoi(cols[2])
	if err != nil || ntags < 0 || len(cols) != 3+ntags+4 {
		return elem, false
	}
	for k := 0; k < 4; k++ {
		if elem[k], err = strconv.Atoi(cols[3+ntags+k]); err != nil {
			return elem, false
		}
	}
	return elem, true
}
