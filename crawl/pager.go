// Package crawl walks the paginated YouTube endpoints for both pipeline stages.
package crawl

// PageState is the position of a Pager in a paginated listing.
type PageState int

const (
	// PageHasMore means another page can be requested with Token.
	PageHasMore PageState = iota
	// PageExhausted means the listing ended or the caller stopped early.
	PageExhausted
	// PageFailed means the last request returned an error.
	PageFailed
)

func (s PageState) String() string {
	switch s {
	case PageHasMore:
		return "has-more"
	case PageExhausted:
		return "exhausted"
	case PageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pager follows continuation tokens through one listing. The first request is
// made with an empty token; every response either hands over the next token or
// moves the pager into a terminal state.
type Pager struct {
	state PageState
	token string
	pages int
	err   error
}

// NewPager returns a pager positioned before the first page.
func NewPager() *Pager {
	return &Pager{state: PageHasMore}
}

// Token is the continuation token for the next request.
func (p *Pager) Token() string { return p.token }

// State returns the current state.
func (p *Pager) State() PageState { return p.state }

// More reports whether another page should be requested.
func (p *Pager) More() bool { return p.state == PageHasMore }

// Pages is the number of responses consumed so far, failed ones included.
func (p *Pager) Pages() int { return p.pages }

// Err returns the error that moved the pager into PageFailed.
func (p *Pager) Err() error { return p.err }

// Advance applies the outcome of requesting the current page. An error moves the
// pager to PageFailed; an empty next token moves it to PageExhausted. Terminal
// states are sticky.
func (p *Pager) Advance(nextToken string, err error) PageState {
	if p.state != PageHasMore {
		return p.state
	}
	p.pages++

	switch {
	case err != nil:
		p.state = PageFailed
		p.err = err
	case nextToken == "":
		p.state = PageExhausted
		p.token = ""
	default:
		p.token = nextToken
	}
	return p.state
}

// Stop ends the listing early, e.g. once a cap is reached. It has no effect on a
// pager that already failed.
func (p *Pager) Stop() {
	if p.state == PageHasMore {
		p.state = PageExhausted
	}
}
