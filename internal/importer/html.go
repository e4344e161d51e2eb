package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/pagemark/internal/model"
	"golang.org/x/net/html"
)

// favoritesFolder marks its bookmarks as favorites instead of tagging them.
const favoritesFolder = "Favorites"

// ParseHTMLBookmarks parses Netscape bookmark HTML into records.
// Folder names become tags (except Favorites, which sets the favorite
// flag), the TAGS attribute is kept, ADD_DATE becomes
// the record date and a following <DD> becomes the description.
func ParseHTMLBookmarks(r io.Reader) ([]model.Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	records := []model.Record{}
	var folderStack []string // folder names from root to current
	var pendingFolder string // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				pendingFolder = getTextContent(n)
				return

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href
				}

				created := time.Now()
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
						created = time.Unix(ts, 0)
					}
				}

				favorite := model.FavoriteFalse
				tags := model.SplitTags(getAttr(n, "tags"))
				for _, folder := range folderStack {
					if strings.EqualFold(folder, favoritesFolder) {
						favorite = model.FavoriteTrue
						continue
					}
					tags = appendMissing(tags, folder)
				}

				records = append(records, model.Record{
					URL:         href,
					Title:       title,
					Description: followingDescription(n),
					Tags:        model.JoinTags(tags),
					Date:        model.FormatDate(created),
					Favorite:    favorite,
				})
				return

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return records, nil
}

// followingDescription returns the text of a <DD> that follows the <DT>
// holding the anchor, if any.
func followingDescription(a *html.Node) string {
	dt := a.Parent
	if dt == nil || !strings.EqualFold(dt.Data, "dt") {
		return ""
	}
	for sib := dt.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		if strings.EqualFold(sib.Data, "dd") {
			return getTextContent(sib)
		}
		return ""
	}
	// html.Parse nests a DD inside the preceding DT when the DT is not closed
	for c := dt.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, "dd") {
			return getTextContent(c)
		}
	}
	return ""
}

// appendMissing appends each extra tag not already present (case-insensitive).
func appendMissing(tags []string, extra ...string) []string {
	for _, e := range extra {
		found := false
		for _, t := range tags {
			if strings.EqualFold(t, e) {
				found = true
				break
			}
		}
		if !found {
			tags = append(tags, e)
		}
	}
	return tags
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
