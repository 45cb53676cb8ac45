// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graph loads undirected graphs and sums the infos of the nodes
// reachable from a start node, fanning the traversal out over a worker pool.
package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Node is a vertex with its payload and adjacency list.
type Node struct {
	Info       int32
	Neighbours []uint32
}

type Graph struct {
	Nodes []Node
}

// EdgeCount returns the number of undirected edges. A self-loop is listed
// once by its node and counts as one edge.
func (g *Graph) EdgeCount() int {
	ends, loops := 0, 0
	for i := range g.Nodes {
		for _, n := range g.Nodes[i].Neighbours {
			if n == uint32(i) {
				loops++
			} else {
				ends++
			}
		}
	}
	return ends/2 + loops
}

// ParseError reports malformed graph input. Token is the 1-based index of
// the offending whitespace-separated token.
type ParseError struct {
	Token int
	What  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("graph input token %d (%s): %v", e.Token, e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	ErrTruncated    = errors.New("unexpected end of input")
	ErrOutOfRange   = errors.New("value out of range")
	ErrNotAnInteger = errors.New("not an integer")
)

type tokenReader struct {
	scanner *bufio.Scanner
	pos     int
}

func (t *tokenReader) next(what string, bitSize int) (int64, error) {
	if !t.scanner.Scan() {
		t.pos++
		err := t.scanner.Err()
		if err == nil {
			err = ErrTruncated
		}
		return 0, &ParseError{Token: t.pos, What: what, Err: err}
	}
	t.pos++

	v, err := strconv.ParseInt(t.scanner.Text(), 10, bitSize)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &ParseError{Token: t.pos, What: what, Err: fmt.Errorf("%w: %q", ErrOutOfRange, t.scanner.Text())}
	}
	if err != nil {
		return 0, &ParseError{Token: t.pos, What: what, Err: fmt.Errorf("%w: %q", ErrNotAnInteger, t.scanner.Text())}
	}
	return v, nil
}

func (t *tokenReader) count(what string) (int, error) {
	v, err := t.next(what, 32)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &ParseError{Token: t.pos, What: what, Err: fmt.Errorf("%w: negative count %d", ErrOutOfRange, v)}
	}
	return int(v), nil
}

func (t *tokenReader) endpoint(what string, n int) (uint32, error) {
	v, err := t.next(what, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= int64(n) || v > math.MaxUint32 {
		return 0, &ParseError{Token: t.pos, What: what, Err: fmt.Errorf("%w: node %d of %d", ErrOutOfRange, v, n)}
	}
	return uint32(v), nil
}

// Parse reads a graph in the "N M, N infos, M edge pairs" text format.
func Parse(r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	t := &tokenReader{scanner: scanner}

	n, err := t.count("node count")
	if err != nil {
		return nil, err
	}
	m, err := t.count("edge count")
	if err != nil {
		return nil, err
	}

	g := &Graph{Nodes: make([]Node, n)}
	for i := range g.Nodes {
		info, err := t.next(fmt.Sprintf("info of node %d", i), 32)
		if err != nil {
			return nil, err
		}
		g.Nodes[i].Info = int32(info)
	}

	for i := 0; i < m; i++ {
		a, err := t.endpoint(fmt.Sprintf("edge %d", i), n)
		if err != nil {
			return nil, err
		}
		b, err := t.endpoint(fmt.Sprintf("edge %d", i), n)
		if err != nil {
			return nil, err
		}
		g.Nodes[a].Neighbours = append(g.Nodes[a].Neighbours, b)
		if a != b {
			g.Nodes[b].Neighbours = append(g.Nodes[b].Neighbours, a)
		}
	}

	return g, nil
}
