package discovery

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
)

// sitemapURL mirrors a sitemap.xml <url> entry; only <loc> is consumed.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Sitemap streams every <loc> from a sitemap.xml body and returns the
// company-page candidates that survive Filter. Non-company URLs (industry
// tag pages, batch-filter pages, top-level jobs/launches pages) are
// dropped at discovery time, per the queue's enqueue-time filtering policy.
func Sitemap(ctx context.Context, body io.Reader) ([]string, error) {
	locCh, errCh := StreamXML[sitemapURL](ctx, body, "url")

	var urls []string
	for loc := range locCh {
		if IsCompanyURL(loc.Loc) {
			urls = append(urls, loc.Loc)
		}
	}
	if err := <-errCh; err != nil {
		return urls, eris.Wrap(err, "stream sitemap")
	}
	return urls, nil
}
