package lingoseo

import (
	"encoding/json"
	"strings"
	"time"
)

const schemaContext = "https://schema.org"

// Ref is a typed schema.org reference such as an Organization or Person.
type Ref struct {
	Type     string `json:"@type"`
	Name     string `json:"name,omitempty"`
	URL      string `json:"url,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
}

// PostalAddress is a schema.org PostalAddress.
type PostalAddress struct {
	Type            string `json:"@type"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

// PersonProfile is the site owner's identity, usually from configuration.
type PersonProfile struct {
	Name        string   `yaml:"name" json:"name"`
	JobTitle    string   `yaml:"job_title" json:"jobTitle"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image"`
	Email       string   `yaml:"email" json:"email"`
	Telephone   string   `yaml:"telephone" json:"telephone"`
	Locality    string   `yaml:"locality" json:"locality"`
	Country     string   `yaml:"country" json:"country"`
	WorksFor    string   `yaml:"works_for" json:"worksFor"`
	WorksForURL string   `yaml:"works_for_url" json:"worksForUrl"`
	AlumniOf    string   `yaml:"alumni_of" json:"alumniOf"`
	KnowsAbout  []string `yaml:"knows_about" json:"knowsAbout"`
	SameAs      []string `yaml:"same_as" json:"sameAs"`
	Awards      []string `yaml:"awards" json:"awards"`
}

// Person is a schema.org Person document.
type Person struct {
	Context     string         `json:"@context"`
	Type        string         `json:"@type"`
	Name        string         `json:"name"`
	JobTitle    string         `json:"jobTitle,omitempty"`
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url"`
	Image       string         `json:"image,omitempty"`
	Email       string         `json:"email,omitempty"`
	Telephone   string         `json:"telephone,omitempty"`
	Address     *PostalAddress `json:"address,omitempty"`
	WorksFor    *Ref           `json:"worksFor,omitempty"`
	AlumniOf    *Ref           `json:"alumniOf,omitempty"`
	KnowsAbout  []string       `json:"knowsAbout,omitempty"`
	SameAs      []string       `json:"sameAs,omitempty"`
	Awards      []string       `json:"awards,omitempty"`
}

// PersonSchema builds the Person document for lang. Translated job title and
// description, when non-empty, replace the profile's.
func PersonSchema(g *MetadataGenerator, profile PersonProfile, lang Language, loc *Localizer) Person {
	lang = g.catalog.Normalize(lang)
	p := Person{
		Context:     schemaContext,
		Type:        "Person",
		Name:        profile.Name,
		JobTitle:    profile.JobTitle,
		Description: profile.Description,
		URL:         g.LanguageURL(lang, "/"),
		Image:       g.AbsoluteURL(firstNonEmpty(profile.Image, g.ogImage)),
		Email:       profile.Email,
		Telephone:   profile.Telephone,
		KnowsAbout:  profile.KnowsAbout,
		SameAs:      profile.SameAs,
		Awards:      profile.Awards,
	}
	if loc != nil {
		if v := loc.T("person.jobTitle"); v != "" {
			p.JobTitle = v
		}
		if v := loc.T("person.description"); v != "" {
			p.Description = v
		}
	}
	if profile.Locality != "" || profile.Country != "" {
		p.Address = &PostalAddress{Type: "PostalAddress", AddressLocality: profile.Locality, AddressCountry: profile.Country}
	}
	if profile.WorksFor != "" {
		p.WorksFor = &Ref{Type: "Organization", Name: profile.WorksFor, URL: profile.WorksForURL}
	}
	if profile.AlumniOf != "" {
		p.AlumniOf = &Ref{Type: "Organization", Name: profile.AlumniOf}
	}
	return p
}

// Certification is one translated certification record.
type Certification struct {
	Title       string
	Issuer      string
	Date        string
	Credential  string
	Category    string
	Link        string
	Description string
}

// CertificationFromRecord reads a Certification from a table record.
func CertificationFromRecord(rec map[string]any) Certification {
	return Certification{
		Title:       firstNonEmpty(RecordString(rec, "title"), RecordString(rec, "name")),
		Issuer:      RecordString(rec, "issuer"),
		Date:        RecordString(rec, "date"),
		Credential:  RecordString(rec, "credential"),
		Category:    firstNonEmpty(RecordString(rec, "category"), "Professional Certification"),
		Link:        RecordString(rec, "link"),
		Description: RecordString(rec, "description"),
	}
}

// Credential is a schema.org EducationalOccupationalCredential document.
type Credential struct {
	Context            string `json:"@context"`
	Type               string `json:"@type"`
	ID                 string `json:"@id,omitempty"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	CredentialCategory string `json:"credentialCategory"`
	RecognizedBy       Ref    `json:"recognizedBy"`
	DateCreated        string `json:"dateCreated,omitempty"`
	URL                string `json:"url,omitempty"`
	Identifier         string `json:"identifier,omitempty"`
}

// CredentialSchema builds a Credential. Empty link and credential id are
// omitted from the JSON.
func CredentialSchema(c Certification) Credential {
	return Credential{
		Context:            schemaContext,
		Type:               "EducationalOccupationalCredential",
		Name:               c.Title,
		Description:        c.Description,
		CredentialCategory: c.Category,
		RecognizedBy:       Ref{Type: "Organization", Name: c.Issuer},
		DateCreated:        c.Date,
		URL:                c.Link,
		Identifier:         c.Credential,
	}
}

// Testimonial is one translated recommendation.
type Testimonial struct {
	Name     string
	Title    string
	Company  string
	LinkedIn string
	Date     string
	Text     string
}

// TestimonialFromRecord reads a Testimonial from a table record.
func TestimonialFromRecord(rec map[string]any) Testimonial {
	return Testimonial{
		Name:     RecordString(rec, "name"),
		Title:    RecordString(rec, "title"),
		Company:  RecordString(rec, "company"),
		LinkedIn: firstNonEmpty(RecordString(rec, "linkedIn"), RecordString(rec, "linkedin")),
		Date:     RecordString(rec, "date"),
		Text:     RecordString(rec, "text"),
	}
}

// Rating is a schema.org Rating.
type Rating struct {
	Type        string `json:"@type"`
	RatingValue int    `json:"ratingValue"`
	BestRating  int    `json:"bestRating"`
}

// Review is a schema.org Review document.
type Review struct {
	Context       string  `json:"@context"`
	Type          string  `json:"@type"`
	Author        Ref     `json:"author"`
	ReviewBody    string  `json:"reviewBody"`
	DatePublished string  `json:"datePublished"`
	ReviewRating  *Rating `json:"reviewRating,omitempty"`
	ItemReviewed  Ref     `json:"itemReviewed"`
}

// ReviewSchema builds a five-star Review of reviewed. A date that cannot be
// parsed is replaced by now.
func ReviewSchema(t Testimonial, reviewed string, now time.Time) Review {
	jobTitle := t.Title
	if t.Title != "" && t.Company != "" {
		jobTitle = t.Title + " at " + t.Company
	} else if t.Company != "" {
		jobTitle = t.Company
	}
	return Review{
		Context:       schemaContext,
		Type:          "Review",
		Author:        Ref{Type: "Person", Name: t.Name, JobTitle: jobTitle, URL: t.LinkedIn},
		ReviewBody:    t.Text,
		DatePublished: ParseContentDate(t.Date, now).UTC().Format(time.RFC3339),
		ReviewRating:  &Rating{Type: "Rating", RatingValue: 5, BestRating: 5},
		ItemReviewed:  Ref{Type: "Person", Name: reviewed},
	}
}

var contentDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"January 2, 2006",
	"January 2006",
	"Jan 2006",
	"02/01/2006",
	"2006",
}

// ParseContentDate accepts the date formats content authors use and returns
// fallback for anything else.
func ParseContentDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range contentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

// Breadcrumb is one step of a breadcrumb trail; Path is site-relative.
type Breadcrumb struct {
	Name string
	Path string
}

// ListItem is a schema.org ListItem.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

// BreadcrumbList is a schema.org BreadcrumbList document.
type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// BreadcrumbSchema builds a BreadcrumbList with language-prefixed URLs.
func BreadcrumbSchema(g *MetadataGenerator, lang Language, crumbs []Breadcrumb) BreadcrumbList {
	lang = g.catalog.Normalize(lang)
	items := make([]ListItem, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     g.LanguageURL(lang, c.Path),
		})
	}
	return BreadcrumbList{Context: schemaContext, Type: "BreadcrumbList", ItemListElement: items}
}

// Organization is a schema.org Organization document.
type Organization struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Logo        string `json:"logo,omitempty"`
	Description string `json:"description,omitempty"`
}

// OrganizationSchema builds an Organization document.
func OrganizationSchema(name, url, logo, description string) Organization {
	return Organization{
		Context:     schemaContext,
		Type:        "Organization",
		Name:        name,
		URL:         url,
		Logo:        logo,
		Description: description,
	}
}

// MarshalJSONLD encodes a structured-data document for a
// <script type="application/ld+json"> block.
func MarshalJSONLD(doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PageStructuredData returns the JSON-LD documents for a page: the Person,
// one Credential per certification record and one Review per testimonial
// record found in the tables.
func PageStructuredData(g *MetadataGenerator, profile PersonProfile, loc Localizer, now time.Time) ([]string, error) {
	docs := []any{PersonSchema(g, profile, loc.Language(), &loc)}
	page := g.LanguageURL(loc.Language(), "/")
	for _, rec := range loc.Objects("certifications.items") {
		cred := CredentialSchema(CertificationFromRecord(rec))
		if id := Slug(cred.Name); id != "" {
			cred.ID = page + "#credential-" + id
		}
		docs = append(docs, cred)
	}
	for _, rec := range loc.Objects("testimonials.items") {
		docs = append(docs, ReviewSchema(TestimonialFromRecord(rec), profile.Name, now))
	}

	out := make([]string, 0, len(docs))
	for _, d := range docs {
		s, err := MarshalJSONLD(d)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
