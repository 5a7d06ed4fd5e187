package model

// Source identifies where a piece of enrichment data came from. It is a
// closed set: merge priority and score attribution switch over it
// exhaustively, so adding a collector means adding a constant here.
type Source string

const (
	SourceInput           Source = "input"           // caller-provided fields
	SourceRegistry        Source = "companies_house" // official registry
	SourceWebsiteCrawl    Source = "website_crawl"
	SourceSearch          Source = "web_search" // directory / organic search discovery
	SourceProfessionalNet Source = "professional_network"
	SourceWhois           Source = "whois"
	SourceWebArchive      Source = "web_archive"
	SourceDorking         Source = "search_dorking"
	SourceSocialScan      Source = "social_scan"
	SourceInference       Source = "pattern_inference" // synthesized contacts
)

// websitePriority orders sources for the first-writer-wins website slot.
// Lower value wins. Registry-confirmed beats caller-provided beats discovered.
var websitePriority = map[Source]int{
	SourceRegistry:        0,
	SourceInput:           1,
	SourceSearch:          2,
	SourceWebArchive:      3,
	SourceDorking:         4,
	SourceWebsiteCrawl:    5,
	SourceProfessionalNet: 6,
	SourceWhois:           7,
	SourceSocialScan:      8,
	SourceInference:       9,
}

// WebsitePriority returns the merge priority for a source writing the
// website field. Unknown sources sort last.
func WebsitePriority(s Source) int {
	if p, ok := websitePriority[s]; ok {
		return p
	}
	return len(websitePriority)
}

// personPriority orders sources for contact-inference targeting: registry
// officers are the most reliable decision makers, then crawled or
// professional-network people.
var personPriority = map[Source]int{
	SourceRegistry:        0,
	SourceWebsiteCrawl:    1,
	SourceProfessionalNet: 1,
	SourceSearch:          2,
	SourceWebArchive:      3,
	SourceDorking:         3,
	SourceSocialScan:      3,
	SourceWhois:           4,
	SourceInference:       5,
	SourceInput:           5,
}

// PersonPriority returns the provenance priority used to pick the top-N
// people for email inference. Lower value is higher priority.
func PersonPriority(s Source) int {
	if p, ok := personPriority[s]; ok {
		return p
	}
	return len(personPriority)
}
