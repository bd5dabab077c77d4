package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/cinfoposte/unwomen-jobs/app/cfg"
)

// Characters illegal in XML 1.0 documents; the portal occasionally leaks
// control characters into listing text.
var illegalXMLRe = regexp.MustCompile(`[\x{0000}-\x{0008}\x{000B}\x{000C}\x{000E}-\x{001F}\x{007F}-\x{0084}\x{0086}-\x{009F}]`)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run serializes the merged feed as an RSS 2.0 document. The output is a
// pure function of the items: channel timestamps derive from the newest
// item rather than the wall clock, so regenerating an unchanged feed yields
// a byte-identical document.
func (g *Generator) Run(items []Item) (string, error) {
	c := cfg.Get()

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", c.FeedTitle, 4)
	g.writeElement(&buf, "link", c.FeedLink, 4)
	g.writeElement(&buf, "description", c.FeedDescription, 4)
	g.writeElement(&buf, "language", "en", 4)

	if c.SelfURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(c.SelfURL)))
	}

	if newest := newestPublishedAt(items); !newest.IsZero() {
		g.writeElement(&buf, "lastBuildDate", newest.Format(time.RFC1123Z), 4)
	}

	g.writeElement(&buf, "generator", fmt.Sprintf("unwomen-jobs/%s", c.Version), 4)

	for _, item := range items {
		g.writeItem(&buf, item, c.FeedTitle, c.FeedLink)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item, sourceTitle, sourceURL string) {
	buf.WriteString("    <item>\n")

	if item.GUID != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(item.GUID)))
		xml.EscapeText(buf, []byte(item.GUID))
		buf.WriteString("</guid>\n")
	}

	if item.Title != "" {
		g.writeElement(buf, "title", stripIllegal(item.Title), 6)
	}

	if item.Link != "" {
		g.writeElement(buf, "link", item.Link, 6)
	}

	buf.WriteString("      <description><![CDATA[")
	buf.WriteString(cdataSafe(stripIllegal(item.Description)))
	buf.WriteString("]]></description>\n")

	if !item.PublishedAt.IsZero() {
		g.writeElement(buf, "pubDate", item.PublishedAt.Format(time.RFC1123Z), 6)
	}

	for _, category := range item.Categories {
		if category != "" {
			g.writeElement(buf, "category", category, 6)
		}
	}

	buf.WriteString(fmt.Sprintf("      <source url=\"%s\">", html.EscapeString(sourceURL)))
	xml.EscapeText(buf, []byte(sourceTitle))
	buf.WriteString("</source>\n")

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}

func newestPublishedAt(items []Item) time.Time {
	var newest time.Time
	for _, item := range items {
		if item.PublishedAt.After(newest) {
			newest = item.PublishedAt
		}
	}
	return newest
}

func stripIllegal(s string) string {
	return illegalXMLRe.ReplaceAllString(s, "")
}

// cdataSafe splits any "]]>" occurrence so it cannot terminate the CDATA
// section early.
func cdataSafe(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}
