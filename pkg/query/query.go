// Package query keeps facet selections in an ordered URL query string.
//
// Pairs keep the order they were written in, repeated keys included, so a
// selection made first is also encoded first. The engine only talks to a Store,
// which lets hosts back it with a request URL, a browser history bridge or
// plain memory in tests.
package query

import (
	"fmt"
	"net/url"
	"strings"
)

type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Store interface {
	Read() []Pair
	Write(pairs []Pair)
}

// Append adds key=value after all existing pairs.
func Append(store Store, key, value string) {
	pairs := store.Read()
	store.Write(append(pairs, Pair{Key: key, Value: value}))
}

// Remove drops every key=value pair. Other pairs keep their relative order.
func Remove(store Store, key, value string) {
	pairs := store.Read()
	ret := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Key == key && p.Value == value {
			continue
		}
		ret = append(ret, p)
	}
	if len(ret) == len(pairs) {
		return
	}
	store.Write(ret)
}

func Encode(pairs []Pair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// Parse reads a raw query string, with or without the leading '?', keeping pair order.
func Parse(raw string) ([]Pair, error) {
	raw = strings.TrimPrefix(raw, "?")
	ret := make([]Pair, 0)
	if raw == "" {
		return ret, nil
	}
	for part := range strings.SplitSeq(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return ret, fmt.Errorf("invalid query key %q: %w", k, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return ret, fmt.Errorf("invalid query value %q: %w", v, err)
		}
		ret = append(ret, Pair{Key: key, Value: value})
	}
	return ret, nil
}

// Values returns all values stored for key, in order.
func Values(pairs []Pair, key string) []string {
	ret := make([]string, 0)
	for _, p := range pairs {
		if p.Key == key {
			ret = append(ret, p.Value)
		}
	}
	return ret
}

// Without returns the pairs whose key is not in keys.
func Without(pairs []Pair, keys ...string) []Pair {
	ret := make([]Pair, 0, len(pairs))
outer:
	for _, p := range pairs {
		for _, k := range keys {
			if p.Key == k {
				continue outer
			}
		}
		ret = append(ret, p)
	}
	return ret
}
