package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/tubular"
)

// readPoints reads sample points, one per line as "x y z". Coordinates may
// be separated by blanks or commas; empty lines and lines starting with '#'
// are skipped.
func readPoints(r io.Reader) ([]tubular.Vec, error) {
	var pts []tubular.Vec
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 coordinates, got %d", lineno, len(fields))
		}
		var c [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			c[i] = v
		}
		pts = append(pts, tubular.V(c[0], c[1], c[2]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pts, nil
}

func readPointsFile(name string) ([]tubular.Vec, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pts, err := readPoints(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return pts, nil
}
