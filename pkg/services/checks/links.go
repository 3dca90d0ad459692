package checks

import (
	"net/url"

	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// ExternalLinkDeterminer decides whether an href leaves the audited site.
type ExternalLinkDeterminer interface {
	IsExternal(href string, ic *inspect.Context) bool
}

// HostLinkDeterminer treats a link as external when it carries a host other
// than the audited page's host. Scheme-relative and absolute links included;
// relative paths never are.
type HostLinkDeterminer struct{}

func NewHostLinkDeterminer() HostLinkDeterminer {
	return HostLinkDeterminer{}
}

func (HostLinkDeterminer) IsExternal(href string, ic *inspect.Context) bool {
	if href == "" {
		return false
	}

	page, err := url.Parse(ic.URL())
	if err != nil || page.Host == "" {
		return false
	}

	link, err := url.Parse(href)
	if err != nil {
		return false
	}

	return link.Host != "" && link.Host != page.Host
}
