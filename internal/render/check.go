package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CountTargets parses a rendered page and counts elements whose id is targetID.
func CountTargets(page, targetID string) (int, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return 0, fmt.Errorf("parsing rendered page: %w", err)
	}
	return countID(doc, targetID), nil
}

func countID(n *html.Node, id string) int {
	count := 0
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				count++
				break
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countID(c, id)
	}
	return count
}

// checkTarget fails unless exactly one element carries targetID.
func checkTarget(page, targetID string) error {
	n, err := CountTargets(page, targetID)
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("%w: found %d elements with id %q", ErrTargetMismatch, n, targetID)
	}
	return nil
}
