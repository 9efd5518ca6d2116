// Package tracking derives courier tracking-site links for a package.
package tracking

import (
	"net/url"
	"strings"
)

type site struct {
	needles []string
	url     string
}

// Matching is case-insensitive on the courier name; order matters because
// some courier names share fragments.
var sites = []site{
	{needles: []string{"jne"}, url: "https://jne.co.id/tracking-package"},
	{needles: []string{"j&t", "jnt"}, url: "https://jet.co.id/track"},
	{needles: []string{"sicepat"}, url: "https://www.sicepat.com/checkAwb"},
	{needles: []string{"shopee", "spx"}, url: "https://spx.co.id/"},
}

// URL returns the tracking site for a courier, or a generic "cek resi" web
// search for couriers that are not in the table.
func URL(courier, trackingNumber string) string {
	c := strings.ToLower(courier)
	for _, s := range sites {
		for _, needle := range s.needles {
			if strings.Contains(c, needle) {
				return s.url
			}
		}
	}
	query := url.Values{}
	query.Set("q", "cek resi "+courier+" "+trackingNumber)
	return "https://google.com/search?" + query.Encode()
}
