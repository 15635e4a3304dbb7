// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vqm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseResult_KeepsOrder(t *testing.T) {
	given := []byte(`{"ssim": {"ssim_y": 0.9}, "vmaf": {"mean": 90}, "global": {}, "psnr": {}}`)

	got, err := ParseResult(given)
	require.NoError(t, err)

	assert.Equal(t, []string{"ssim", "vmaf", "global", "psnr"}, got.Metrics())
	raw, ok := got.Get("ssim")
	assert.True(t, ok)
	assert.JSONEq(t, `{"ssim_y": 0.9}`, string(raw))
}

func Test_ParseObject_DuplicateKeys(t *testing.T) {
	got, err := ParseObject([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got.Keys())
	v, ok := got.Number("a")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func Test_ParseResult_Negative(t *testing.T) {
	tests := map[string]string{
		"Empty":          ``,
		"Not JSON":       `Error: something went wrong`,
		"Array":          `[1, 2, 3]`,
		"Truncated":      `{"vmaf": {"mean": 9`,
		"Trailing data":  `{"vmaf": {}} {"psnr": {}}`,
		"Trailing junk":  `{"vmaf": {}} junk`,
		"Scalar":         `42`,
		"Unquoted key":   `{vmaf: 1}`,
		"Missing value":  `{"vmaf": }`,
		"Missing brace":  `{"vmaf": 1`,
		"Only delimiter": `}`,
	}

	for name, given := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResult([]byte(given))
			assert.Error(t, err)
		})
	}
}

func Test_ParseResult_Whitespace(t *testing.T) {
	got, err := ParseResult([]byte("\n  {\"vmaf\": {\"mean\": 1}}\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func Test_Object_Number(t *testing.T) {
	o, err := ParseObject([]byte(`{"n": -1.5e1, "s": "12", "z": null, "o": {}, "b": true}`))
	require.NoError(t, err)

	v, ok := o.Number("n")
	assert.True(t, ok)
	assert.Equal(t, -15.0, v)

	for _, k := range []string{"s", "z", "o", "b", "missing"} {
		_, ok := o.Number(k)
		assert.False(t, ok, "key %q should not be a number", k)
	}
}

func Test_DecodeVMAF(t *testing.T) {
	t.Run("Mean and frames", func(t *testing.T) {
		got, err := DecodeVMAF([]byte(`{"mean": 92.5, "frames": [{"metrics":{"vmaf":90.0}}, {"metrics":{"vmaf":95.0}}]}`))
		require.NoError(t, err)
		require.NotNil(t, got.Mean)
		assert.Equal(t, 92.5, *got.Mean)
		assert.Len(t, got.Frames, 2)
	})

	t.Run("Zero mean is present", func(t *testing.T) {
		got, err := DecodeVMAF([]byte(`{"mean": 0}`))
		require.NoError(t, err)
		require.NotNil(t, got.Mean)
		assert.Equal(t, 0.0, *got.Mean)
	})

	t.Run("Missing or non-numeric mean", func(t *testing.T) {
		for _, given := range []string{`{}`, `{"mean": null}`, `{"mean": "92"}`} {
			got, err := DecodeVMAF([]byte(given))
			require.NoError(t, err)
			assert.Nil(t, got.Mean, "given: %s", given)
		}
	})

	t.Run("Not an object", func(t *testing.T) {
		_, err := DecodeVMAF([]byte(`[{"vmaf": 1}]`))
		assert.ErrorIs(t, err, ErrNotObject)
	})
}

func Test_ParseObject_RawValues(t *testing.T) {
	got, err := ParseObject([]byte(`{"s": "some text", "l": [1, {"x": null}], "n": 1.5}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"s", "l", "n"}, got.Keys())
	s, _ := got.Get("s")
	assert.JSONEq(t, `"some text"`, string(s))
	l, _ := got.Get("l")
	assert.JSONEq(t, `[1, {"x": null}]`, string(l))
}

func Test_ParseObject_NotObject(t *testing.T) {
	for _, given := range []string{`[1, 2]`, `"text"`, `null`, `42`} {
		_, err := ParseObject([]byte(given))
		assert.ErrorIs(t, err, ErrNotObject, "given: %s", given)
	}
}

func Test_Object_Zero(t *testing.T) {
	var o Object

	assert.Empty(t, o.Keys())
	assert.Equal(t, 0, o.Len())
	_, ok := o.Get("vmaf")
	assert.False(t, ok)
	_, ok = o.Number("vmaf")
	assert.False(t, ok)
}
