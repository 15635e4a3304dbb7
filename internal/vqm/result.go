// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Comparison result as produced by the metrics engine.
//
// The engine's output is an open-ended JSON document: new metrics may appear
// at any time. So the result is kept semi-structured, an ordered JSON object
// whose values are raw JSON. Typed views (VMAFResult, Frame) are decoded on
// demand and only where the reporter needs them.

package vqm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var ErrNotObject = errors.New("JSON document is not an object")

// Object is a JSON object that remembers key insertion order.
type Object struct {
	m *orderedmap.OrderedMap[string, json.RawMessage]
}

// ParseObject decodes a JSON object keeping its key order.
//
// For duplicate keys the last value wins while the key keeps the position of
// its first occurrence.
func ParseObject(data []byte) (Object, error) {
	// Syntax errors and trailing data are caught here, before type check.
	if !json.Valid(data) {
		return Object{}, errors.New("ParseObject() invalid JSON document")
	}
	if t := bytes.TrimSpace(data); len(t) == 0 || t[0] != '{' {
		return Object{}, ErrNotObject
	}

	m := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, m); err != nil {
		return Object{}, fmt.Errorf("ParseObject() decoding: %w", err)
	}
	return Object{m: m}, nil
}

// Keys returns object keys in document order.
func (o Object) Keys() []string {
	if o.m == nil {
		return nil
	}
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns number of keys.
func (o Object) Len() int {
	if o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Get returns raw JSON value for key.
func (o Object) Get(key string) (json.RawMessage, bool) {
	if o.m == nil {
		return nil, false
	}
	return o.m.Get(key)
}

// Number returns value for key if it is a JSON number.
func (o Object) Number(key string) (float64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return rawNumber(v)
}

// Result maps metric name to metric result document, in the order the engine
// emitted them.
type Result struct {
	Object
}

// ParseResult decodes metrics engine output.
func ParseResult(data []byte) (Result, error) {
	o, err := ParseObject(data)
	if err != nil {
		return Result{}, err
	}
	return Result{Object: o}, nil
}

// Metrics returns metric names in the order engine emitted them.
func (r Result) Metrics() []string {
	return r.Keys()
}

// VMAFResult is typed view on VMAF metric result.
type VMAFResult struct {
	// Mean is nil if engine did not report a numeric mean.
	Mean   *float64
	Frames []Frame
}

// DecodeVMAF builds VMAFResult from raw VMAF metric document.
//
// Only a non-object document is an error; odd field values are treated as
// absent.
func DecodeVMAF(raw json.RawMessage) (VMAFResult, error) {
	var res VMAFResult

	o, err := ParseObject(raw)
	if err != nil {
		return res, fmt.Errorf("DecodeVMAF(): %w", err)
	}

	if m, ok := o.Number("mean"); ok {
		res.Mean = &m
	}

	if f, ok := o.Get("frames"); ok {
		res.Frames = DecodeFrames(f)
	}

	return res, nil
}

// rawNumber returns float value for raw JSON number. Strings holding numbers
// and nulls are not numbers.
func rawNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}
