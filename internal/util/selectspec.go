/**
 * Copyright (c) 2025 The Vortex Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// PBS select statements describe the requested node chunks, e.g.
// "1:ncpus=8:ngpus=1:mem=100GB" or "2:ncpus=16+1:ncpus=4:mem=8GB".
// Counts inside a chunk are per node of that chunk.

type selectAst struct {
	Chunks []*chunkAst `parser:"@@ ( Plus @@ )*"`
}

type chunkAst struct {
	Count int             `parser:"@Number"`
	Attrs []*chunkAttrAst `parser:"( Colon @@ )*"`
}

type chunkAttrAst struct {
	Key   string `parser:"@Ident"`
	Value string `parser:"Equals @( Size | Number | Ident )"`
}

var selectLexerRules = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Size", Pattern: `[0-9]+(\.[0-9]+)?([KkMmGgTt][Bb]?|[Bb])`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Plus", Pattern: `\+`},
})

var selectParser = participle.MustBuild[selectAst](
	participle.Lexer(selectLexerRules),
)

// SelectChunk is one resolved chunk of a select statement.
type SelectChunk struct {
	Count       uint32
	NCpus       uint32
	NGpus       uint32
	MemoryBytes uint64
	Extras      map[string]string
}

type SelectStatement struct {
	Chunks []SelectChunk
}

func ParseSelect(raw string) (*SelectStatement, error) {
	spec := strings.TrimSpace(raw)
	if spec == "" {
		return nil, fmt.Errorf("empty select statement")
	}

	ast, err := selectParser.ParseString("", spec)
	if err != nil {
		return nil, fmt.Errorf("parse select %q: %w", raw, err)
	}

	stmt := &SelectStatement{}
	for _, chunk := range ast.Chunks {
		if chunk.Count <= 0 {
			return nil, fmt.Errorf("select %q: chunk count must be positive", raw)
		}
		resolved := SelectChunk{Count: uint32(chunk.Count), NCpus: 1}
		for _, attr := range chunk.Attrs {
			switch attr.Key {
			case "ncpus":
				n, err := strconv.ParseUint(attr.Value, 10, 32)
				if err != nil || n == 0 {
					return nil, fmt.Errorf("select %q: invalid ncpus value %q", raw, attr.Value)
				}
				resolved.NCpus = uint32(n)
			case "ngpus":
				n, err := strconv.ParseUint(attr.Value, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("select %q: invalid ngpus value %q", raw, attr.Value)
				}
				resolved.NGpus = uint32(n)
			case "mem":
				bytes, err := ParseMemStringAsByte(attr.Value)
				if err != nil {
					return nil, fmt.Errorf("select %q: invalid mem value %q", raw, attr.Value)
				}
				resolved.MemoryBytes = bytes
			default:
				if resolved.Extras == nil {
					resolved.Extras = make(map[string]string)
				}
				resolved.Extras[attr.Key] = attr.Value
			}
		}
		stmt.Chunks = append(stmt.Chunks, resolved)
	}
	return stmt, nil
}

// TotalNodes is the node count summed over all chunks.
func (s *SelectStatement) TotalNodes() uint32 {
	var total uint32
	for _, c := range s.Chunks {
		total += c.Count
	}
	return total
}

// MaxCpusPerNode returns the widest per-node cpu request among the chunks.
func (s *SelectStatement) MaxCpusPerNode() uint32 {
	var max uint32
	for _, c := range s.Chunks {
		if c.NCpus > max {
			max = c.NCpus
		}
	}
	return max
}

func (s *SelectStatement) MaxGpusPerNode() uint32 {
	var max uint32
	for _, c := range s.Chunks {
		if c.NGpus > max {
			max = c.NGpus
		}
	}
	return max
}

func (s *SelectStatement) MaxMemPerNodeBytes() uint64 {
	var max uint64
	for _, c := range s.Chunks {
		if c.MemoryBytes > max {
			max = c.MemoryBytes
		}
	}
	return max
}
