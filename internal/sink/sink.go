// Package sink writes extracted articles to JSON or SQLite.
package sink

import (
	"bufio"
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/shapestone/shape-sqldump/internal/article"
)

// WriteJSON writes articles as an indented JSON array. Non-ASCII text and
// HTML are written as is, not escaped, and no newline follows the array.
func WriteJSON(w io.Writer, articles []article.Article) error {
	if articles == nil {
		articles = []article.Article{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("sink: encode json: %w", err)
	}
	out := unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("sink: write json: %w", err)
	}
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes that
// encoding/json always emits back into raw characters. A backslash in
// encoder output always starts a two-byte escape, so pairs are skipped whole.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if rest := b[i+1:]; len(rest) >= 5 && rest[0] == 'u' && string(rest[1:4]) == "202" && (rest[4] == '8' || rest[4] == '9') {
			out = utf8.AppendRune(out, rune(0x2020+int(rest[4]-'0')))
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// WriteJSONFile writes articles to path, creating parent directories.
func WriteJSONFile(path string, articles []article.Article) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("sink: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := WriteJSON(bw, articles); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	return nil
}

const articlesSchema = `CREATE TABLE "articles" (
	"wp_id" INTEGER,
	"title" TEXT NOT NULL,
	"slug" TEXT NOT NULL UNIQUE,
	"excerpt" TEXT,
	"body" TEXT,
	"category" TEXT,
	"status" TEXT,
	"published_at" TEXT,
	"view_count" INTEGER NOT NULL DEFAULT 0
)`

// WriteSQLite writes articles into an "articles" table in the database at
// path. An existing table of that name is dropped first; other tables are
// left alone.
func WriteSQLite(path string, articles []article.Article) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sink: open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("sink: begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DROP TABLE IF EXISTS "articles"`,
		articlesSchema,
		`CREATE INDEX "idx_articles_category" ON "articles"("category")`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("sink: schema: %w", err)
		}
	}

	ins, err := tx.Prepare(`INSERT INTO "articles"
		("wp_id", "title", "slug", "excerpt", "body", "category", "status", "published_at", "view_count")
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sink: prepare: %w", err)
	}
	defer ins.Close()

	for _, a := range articles {
		var published any
		if a.PublishedAt != nil {
			published = *a.PublishedAt
		}
		if _, err := ins.Exec(a.WPID, a.Title, a.Slug, a.Excerpt, a.Body, a.Category, a.Status, published, a.ViewCount); err != nil {
			return fmt.Errorf("sink: insert %q: %w", a.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sink: commit: %w", err)
	}
	return nil
}
