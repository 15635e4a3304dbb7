// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package tools

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/google/shlex"
)

// SplitArgs splits a command line fragment into arguments using shell quoting rules.
func SplitArgs(s string) ([]string, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("split arguments %q: %w", s, err)
	}
	return args, nil
}

// RenderArgs turns an argument template into an argument list.
//
// The template is split with shell quoting rules first and only then every
// argument is rendered on its own. That way a substituted value (a URL with
// '&' or a path with spaces) always ends up as exactly one argument.
//
// Template requires data to be a struct with exported fields or a map.
func RenderArgs(tpl string, data any) ([]string, error) {
	parts, err := SplitArgs(tpl)
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, len(parts))
	for i, p := range parts {
		t, err := template.New(fmt.Sprintf("arg%d", i)).Option("missingkey=error").Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse argument template %q: %w", p, err)
		}
		var sb strings.Builder
		if err := t.Execute(&sb, data); err != nil {
			return nil, fmt.Errorf("execute argument template %q: %w", p, err)
		}
		args = append(args, sb.String())
	}

	return args, nil
}
