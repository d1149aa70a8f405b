package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const (
	datNodeGroupTag    = 7
	datElementGroupTag = 8
)

// Group is a named set of node or element ids.
type Group struct {
	Name string
	IDs  []int
}

// WriteDat writes a partitioned mesh in the solver's .dat format: a
// "3 4 nodes elements" header, every node as "id x y z", every element as
// "id n1 n2 n3 n4", and then each node group as "7 name n" and each element
// group as "8 name n" followed by its ids one per line.
func WriteDat(
	w io.Writer, mesh *Mesh, nodeGroups, elemGroups []Group,
) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "3 4 %d %d\n", len(mesh.NodeIDs), len(mesh.Elements))
	for _, id := range mesh.NodeIDs {
		v := mesh.Nodes[id]
		fmt.Fprintf(bw, "%d %s %s %s\n", id,
			formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
	}
	for i, e := range mesh.Elements {
		fmt.Fprintf(bw, "%d %d %d %d %d\n", i+1, e[0], e[1], e[2], e[3])
	}

	writeGroups(bw, datNodeGroupTag, nodeGroups)
	writeGroups(bw, datElementGroupTag, elemGroups)

	return bw.Flush()
}

func writeGroups(bw *bufio.Writer, tag int, groups []Group) {
	for _, g := range groups {
		fmt.Fprintf(bw, "%d %s %d\n", tag, g.Name, len(g.IDs))
		for _, id := range g.IDs {
			fmt.Fprintf(bw, "%d\n", id)
		}
	}
}

// WriteDatFile writes a .dat file to disk.
func WriteDatFile(
	fname string, mesh *Mesh, nodeGroups, elemGroups []Group,
) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create dat file: %w", err)
	}
	if err = WriteDat(f, mesh, nodeGroups, elemGroups); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
