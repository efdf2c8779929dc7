package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDump = "INSERT INTO `wp_posts` (`ID`) VALUES\n" +
	"(7, 1, '2023-01-02 03:04:05', '2023-01-02 03:04:05', " +
	"'<p>Harga saham emiten perbankan bergerak naik sepanjang sesi perdagangan.</p>', " +
	"'Saham Bank Naik', '', 'publish', 'open', 'open', '', 'saham-bank-naik', '', '', " +
	"'2023-01-02 03:04:05', '2023-01-02 03:04:05', '', 0, 'https://example.com/?p=7', 0, 'post', '', 0);\n"

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, os.WriteFile(path, []byte(testDump), 0o644))
	return path
}

func TestRun(t *testing.T) {
	in := writeDump(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "articles.json")
	db := filepath.Join(dir, "articles.sqlite")

	var stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-in", in, "-out", out, "-table", "wp_posts", "-sqlite", db, "-log-format", "json",
	}, &stderr)
	require.Equal(t, 0, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var articles []map[string]any
	require.NoError(t, json.Unmarshal(data, &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "saham-bank-naik", articles[0]["slug"])
	assert.Equal(t, "Market", articles[0]["category"])

	assert.Contains(t, stderr.String(), `"message":"category distribution"`)
	assert.FileExists(t, db)
}

func TestRun_Categories(t *testing.T) {
	in := writeDump(t)
	dir := t.TempDir()
	cats := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(cats, []byte("categories:\n  - label: Perbankan\n    keywords: [bank]\n"), 0o644))
	out := filepath.Join(dir, "articles.json")

	var stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-in", in, "-out", out, "-table", "wp_posts", "-categories", cats, "-log-format", "json",
	}, &stderr)
	require.Equal(t, 0, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category": "Perbankan"`)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"missing input flag", nil, 2, "-in is required"},
		{"bad level", []string{"-in", "x", "-log-level", "loud"}, 2, "invalid -log-level"},
		{"bad format", []string{"-in", "x", "-log-format", "xml"}, 2, "invalid -log-format"},
		{"unknown flag", []string{"-nope"}, 2, "flag provided but not defined"},
		{"missing file", []string{"-in", filepath.Join(t.TempDir(), "none.sql"), "-log-format", "json"}, 1, "extraction failed"},
		{"missing categories", []string{"-in", "x", "-categories", filepath.Join(t.TempDir(), "none.yaml"), "-log-format", "json"}, 1, "loading categories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stderr)
			assert.Equal(t, tt.code, code)
			assert.True(t, strings.Contains(stderr.String(), tt.msg), stderr.String())
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"-h"}, &stderr))
	assert.Contains(t, stderr.String(), "usage: wpextract")
}
