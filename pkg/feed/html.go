package feed

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadHTML reads rows from the first <table> of an HTML document. Each <tr>
// with <td> cells is a row; header rows made of <th> are skipped. <br>
// inside a cell is dropped, so a wrapped cell reads as one line.
func ReadHTML(r io.Reader) ([]Row, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	table := findElement(doc, atom.Table)
	if table == nil {
		return nil, nil
	}

	var rows []Row
	line := 0
	for _, tr := range collectElements(table, atom.Tr) {
		line++
		var cells []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Td {
				var sb strings.Builder
				extractText(c, &sb)
				cells = append(cells, sb.String())
			}
		}
		if len(cells) == 0 {
			continue
		}
		if len(cells) > columns {
			return nil, &RowError{Line: line, Err: fmt.Errorf("expected at most %d cells, got %d", columns, len(cells))}
		}
		row := newRow(line, cells)
		if row.empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// collectElements returns the descendants of n matching a, in document
// order, without descending into nested tables.
func collectElements(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == a {
				out = append(out, c)
				continue
			}
			if c.DataAtom == atom.Table {
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func extractText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(strings.Trim(n.Data, "\r\n"))
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Rt, atom.Rp:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb)
	}
}
