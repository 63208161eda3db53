package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/tubular"
)

// ErrMalformed indicates STL input which could not be parsed.
var ErrMalformed = errors.New("malformed STL")

const (
	headerSize   = 80
	facetSize    = 50 // 12 float32 + 2 attribute bytes
	binaryPrefix = headerSize + 4
)

// ParseFile reads an STL file and returns a Model.
func ParseFile(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads STL data and returns a Model. It automatically detects
// whether the data is in ASCII or binary format. Binary files whose header
// happens to start with "solid" are recognized by their size.
func Parse(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	if isASCII(data) {
		return parseASCII(bytes.NewReader(data))
	}
	return parseBinary(data)
}

func isASCII(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	if len(data) >= binaryPrefix {
		count := binary.LittleEndian.Uint32(data[headerSize:binaryPrefix])
		if uint64(len(data)) == binaryPrefix+uint64(count)*facetSize {
			return false
		}
	}
	return true
}

// parseASCII parses an ASCII STL file.
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal tubular.Vec
	var vertices []tubular.Vec
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}
		case "facet":
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("%w: line %d: expected facet normal", ErrMalformed, lineno)
			}
			n, err := parseVec(fields[2:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineno, err)
			}
			currentNormal = n
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("%w: line %d: expected 3 vertex coordinates", ErrMalformed, lineno)
			}
			v, err := parseVec(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineno, err)
			}
			vertices = append(vertices, v)
		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("%w: line %d: facet has %d vertices", ErrMalformed, lineno, len(vertices))
			}
			model.AddTriangle(Triangle{
				Normal: currentNormal,
				V1:     vertices[0],
				V2:     vertices[1],
				V3:     vertices[2],
			})
			vertices = vertices[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return model, nil
}

func parseVec(fields []string) (tubular.Vec, error) {
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return tubular.Zero, err
		}
		c[i] = f
	}
	return tubular.V(c[0], c[1], c[2]), nil
}

// binaryFacet is the on-disk layout of a triangle in binary STL.
type binaryFacet struct {
	Normal, V1, V2, V3 [3]float32
	Attr               uint16
}

// parseBinary parses a binary STL file. The triangle count of the header
// has to match the data actually present.
func parseBinary(data []byte) (*Model, error) {
	if len(data) < binaryPrefix {
		return nil, fmt.Errorf("%w: binary data too short for header, %d bytes", ErrMalformed, len(data))
	}
	model := NewModel("")
	model.Name = strings.TrimSpace(string(bytes.TrimRight(data[:headerSize], "\x00")))
	triangleCount := binary.LittleEndian.Uint32(data[headerSize:binaryPrefix])
	if available := uint64(len(data)-binaryPrefix) / facetSize; uint64(triangleCount) > available {
		return nil, fmt.Errorf("%w: header announces %d triangles, data holds %d",
			ErrMalformed, triangleCount, available)
	}
	model.Triangles = make([]Triangle, 0, triangleCount)
	reader := bytes.NewReader(data[binaryPrefix:])
	for i := uint32(0); i < triangleCount; i++ {
		var f binaryFacet
		if err := binary.Read(reader, binary.LittleEndian, &f); err != nil {
			return nil, fmt.Errorf("%w: failed to read triangle %d: %v", ErrMalformed, i, err)
		}
		model.AddTriangle(Triangle{
			Normal: vec32(f.Normal),
			V1:     vec32(f.V1),
			V2:     vec32(f.V2),
			V3:     vec32(f.V3),
			Attr:   f.Attr,
		})
	}
	return model, nil
}

func vec32(v [3]float32) tubular.Vec {
	return tubular.V(float64(v[0]), float64(v[1]), float64(v[2]))
}
