package pipeline

import (
	"maps"
	"strings"

	"github.com/l7mp/linq/pkg/linq"
	"github.com/l7mp/linq/pkg/provider"
)

type docs = *linq.Sequence[provider.Document]

type joinArgs struct {
	From     string `json:"from"`
	OuterKey any    `json:"outerKey"`
	InnerKey any    `json:"innerKey"`
	As       string `json:"as"`
}

type groupByArgs struct {
	Keys []string `json:"keys"`
	Key  []any    `json:"key"`
}

type setArgs struct {
	From string `json:"from"`
	Key  any    `json:"key"`
}

// compileStage appends a stage to the sequence.
func (p *Pipeline) compileStage(conn provider.Connection, in docs, s *Stage) (docs, error) {
	switch s.Op {
	case "@where":
		var source string
		if err := s.decode(&source); err != nil {
			return nil, err
		}
		cond, err := CompileCondition(source)
		if err != nil {
			return nil, err
		}
		return in.WhereErr(cond.Evaluate), nil

	case "@select":
		shape := map[string]any{}
		if err := s.decode(&shape); err != nil {
			return nil, err
		}
		proj, err := compileProjection(shape)
		if err != nil {
			return nil, err
		}
		return linq.Select(in, proj), nil

	case "@selectMany":
		path, err := p.decodePath(s)
		if err != nil {
			return nil, err
		}
		return linq.SelectMany[provider.Document, provider.Document](in,
			func(doc provider.Document) any { return asDocuments(path.Get(doc)) }), nil

	case "@orderBy", "@orderByDescending":
		path, err := p.decodePath(s)
		if err != nil {
			return nil, err
		}
		if s.Op == "@orderBy" {
			return in.OrderBy(keyOf(path)), nil
		}
		return in.OrderByDescending(keyOf(path)), nil

	case "@distinct":
		var key any
		if _, err := s.decodeOptional(&key); err != nil {
			return nil, err
		}
		keyFn, err := optionalKey(key)
		if err != nil {
			return nil, err
		}
		return in.Distinct(keyFn), nil

	case "@skip", "@take":
		var n int
		if err := s.decode(&n); err != nil {
			return nil, err
		}
		if s.Op == "@skip" {
			return in.Skip(n), nil
		}
		return in.Take(n), nil

	case "@reverse":
		return in.Reverse(), nil

	case "@defaultIfEmpty":
		def := provider.Document{}
		if _, err := s.decodeOptional(&def); err != nil {
			return nil, err
		}
		return in.DefaultIfEmpty(def), nil

	case "@join", "@groupJoin":
		return p.compileJoin(conn, in, s)

	case "@groupBy":
		return p.compileGroupBy(in, s)

	case "@union", "@intersect", "@except":
		args := setArgs{}
		if err := s.decode(&args); err != nil {
			return nil, err
		}
		other, err := collection(conn, args.From)
		if err != nil {
			return nil, err
		}
		keyFn, err := optionalKey(args.Key)
		if err != nil {
			return nil, err
		}
		switch s.Op {
		case "@union":
			return in.Union(other, keyFn), nil
		case "@intersect":
			return in.Intersect(other, keyFn), nil
		}
		return in.Except(other, keyFn), nil
	}

	return nil, NewInvalidArgumentsError("pipeline", s.Op)
}

func (p *Pipeline) compileJoin(conn provider.Connection, in docs, s *Stage) (docs, error) {
	args := joinArgs{}
	if err := s.decode(&args); err != nil {
		return nil, err
	}
	inner, err := collection(conn, args.From)
	if err != nil {
		return nil, err
	}
	outerKey, err := CompilePath(args.OuterKey)
	if err != nil {
		return nil, err
	}
	innerKey, err := CompilePath(args.InnerKey)
	if err != nil {
		return nil, err
	}
	as := args.As
	if as == "" {
		as = args.From
	}

	if s.Op == "@join" {
		return linq.JoinWith(in, inner, keyOf(outerKey), keyOf(innerKey),
			func(o, i provider.Document) provider.Document {
				ret := maps.Clone(o)
				ret[as] = i
				return ret
			}), nil
	}

	return linq.GroupJoinWith(in, inner, keyOf(outerKey), keyOf(innerKey),
		func(o provider.Document, is *linq.Sequence[provider.Document]) provider.Document {
			ret := maps.Clone(o)
			ret[as] = toList(is)
			return ret
		}), nil
}

func (p *Pipeline) compileGroupBy(in docs, s *Stage) (docs, error) {
	args := groupByArgs{}
	if err := s.decode(&args); err != nil {
		return nil, err
	}
	if len(args.Key) == 0 {
		return nil, NewInvalidArgumentsError(s.Op, string(s.Arg))
	}

	paths := make([]*Path, len(args.Key))
	for i, k := range args.Key {
		path, err := CompilePath(k)
		if err != nil {
			return nil, err
		}
		paths[i] = path
	}

	names := args.Keys
	if len(names) == 0 {
		for _, path := range paths {
			names = append(names, strings.TrimPrefix(path.String(), "$."))
		}
	}

	key := func(doc provider.Document) any {
		if len(paths) == 1 {
			return paths[0].Get(doc)
		}
		ret := make(linq.Tuple, len(paths))
		for i, path := range paths {
			ret[i] = path.Get(doc)
		}
		return ret
	}

	return linq.GroupBySelect(in, names, key,
		func(g *linq.Grouping[provider.Document]) provider.Document {
			return provider.Document{"key": g.Key().ToMap(), "items": toList(g.Sequence)}
		}), nil
}

// compileProjection compiles a map of output fields to value expressions. Nested maps are
// projected recursively; "@count" and "@items" refer to the items of a grouped document.
func compileProjection(shape map[string]any) (func(provider.Document) provider.Document, error) {
	fields := map[string]func(provider.Document) any{}
	for name, v := range shape {
		switch e := v.(type) {
		case map[string]any:
			sub, err := compileProjection(e)
			if err != nil {
				return nil, err
			}
			fields[name] = func(doc provider.Document) any { return sub(doc) }
		case string:
			switch e {
			case "@count":
				fields[name] = func(doc provider.Document) any {
					items, _ := doc["items"].([]any)
					return int64(len(items))
				}
				continue
			case "@items":
				fields[name] = func(doc provider.Document) any { return doc["items"] }
				continue
			}
			path, err := CompilePath(e)
			if err != nil {
				return nil, err
			}
			fields[name] = func(doc provider.Document) any { return path.Get(doc) }
		default:
			fields[name] = func(provider.Document) any { return e }
		}
	}

	return func(doc provider.Document) provider.Document {
		ret := make(provider.Document, len(fields))
		for name, f := range fields {
			ret[name] = f(doc)
		}
		return ret
	}, nil
}

func (p *Pipeline) decodePath(s *Stage) (*Path, error) {
	var v any
	if err := s.decode(&v); err != nil {
		return nil, err
	}
	return CompilePath(v)
}

func keyOf(path *Path) func(provider.Document) any {
	return func(doc provider.Document) any { return path.Get(doc) }
}

// optionalKey compiles an optional key expression. A missing key keys by the whole document.
func optionalKey(v any) (func(provider.Document) any, error) {
	if v == nil {
		return nil, nil
	}
	path, err := CompilePath(v)
	if err != nil {
		return nil, err
	}
	return keyOf(path), nil
}

func collection(conn provider.Connection, name string) (docs, error) {
	if name == "" {
		return nil, NewInvalidArgumentsError("from", name)
	}
	return conn.Collection(name)
}

// asDocuments turns a list value into documents. Non-object items are wrapped as
// {"value": item}. A missing value yields no documents, any other value is returned as is.
func asDocuments(v any) any {
	if v == nil {
		return []provider.Document{}
	}
	list, ok := v.([]any)
	if !ok {
		return v
	}
	ret := make([]provider.Document, 0, len(list))
	for _, item := range list {
		if doc, ok := item.(map[string]any); ok {
			ret = append(ret, doc)
			continue
		}
		ret = append(ret, provider.Document{"value": item})
	}
	return ret
}

// toList materializes a sequence into a JSON-style list.
func toList(s docs) []any {
	ret := []any{}
	for doc := range s.All() {
		ret = append(ret, doc)
	}
	return ret
}
