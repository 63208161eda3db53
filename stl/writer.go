package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/tubular"
)

func normalOf(t Triangle) tubular.Vec {
	if t.Normal.IsZero() {
		return t.FacetNormal()
	}
	return t.Normal
}

// WriteASCII writes a model in ASCII STL format. Attribute bytes are lost.
func WriteASCII(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", m.Name)
	for _, t := range m.Triangles {
		n := normalOf(t)
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range []tubular.Vec{t.V1, t.V2, t.V3} {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", m.Name)
	return bw.Flush()
}

// WriteBinary writes a model in binary STL format, including attribute bytes.
// The model name is truncated to fit the 80-byte header.
func WriteBinary(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	header := make([]byte, headerSize)
	copy(header, m.Name)
	if _, err := bw.Write(header); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return err
	}
	for _, t := range m.Triangles {
		f := binaryFacet{
			Normal: vec64(normalOf(t)),
			V1:     vec64(t.V1),
			V2:     vec64(t.V2),
			V3:     vec64(t.V3),
			Attr:   t.Attr,
		}
		if err := binary.Write(bw, binary.LittleEndian, &f); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes a model to a file, in binary or ASCII format.
func WriteFile(filename string, m *Model, asBinary bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if asBinary {
		err = WriteBinary(file, m)
	} else {
		err = WriteASCII(file, m)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

func vec64(v tubular.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
