package scryfall

import "fmt"

// ImageURIs holds the image renditions of a card face or printing.
type ImageURIs struct {
	Small  string `json:"small,omitempty"`
	Normal string `json:"normal,omitempty"`
	Large  string `json:"large,omitempty"`
}

// CardFace is one face of a multi-faced printing.
type CardFace struct {
	Name      string     `json:"name,omitempty"`
	TypeLine  string     `json:"type_line,omitempty"`
	ImageURIs *ImageURIs `json:"image_uris,omitempty"`
}

// Print is a single printing of a card as known to the catalog.
type Print struct {
	ID              string     `json:"id"`
	OracleID        string     `json:"oracle_id,omitempty"`
	Name            string     `json:"name"`
	SetCode         string     `json:"set"`
	CollectorNumber string     `json:"collector_number,omitempty"`
	TypeLine        string     `json:"type_line,omitempty"`
	Digital         bool       `json:"digital,omitempty"`
	ScryfallURI     string     `json:"scryfall_uri,omitempty"`
	ImageURIs       *ImageURIs `json:"image_uris,omitempty"`
	CardFaces       []CardFace `json:"card_faces,omitempty"`
}

// FrontImages returns the printing's front-face images, falling back to the
// first card face when the top-level images are absent.
func (p *Print) FrontImages() ImageURIs {
	if p == nil {
		return ImageURIs{}
	}
	imgs := ImageURIs{}
	if p.ImageURIs != nil {
		imgs = *p.ImageURIs
	}
	if imgs.Small == "" && len(p.CardFaces) > 0 && p.CardFaces[0].ImageURIs != nil {
		face := *p.CardFaces[0].ImageURIs
		if imgs.Small == "" {
			imgs.Small = face.Small
		}
		if imgs.Normal == "" {
			imgs.Normal = face.Normal
		}
		if imgs.Large == "" {
			imgs.Large = face.Large
		}
	}
	return imgs
}

// BackImages returns the second face's images, if the printing has one.
func (p *Print) BackImages() ImageURIs {
	if p == nil || len(p.CardFaces) < 2 || p.CardFaces[1].ImageURIs == nil {
		return ImageURIs{}
	}
	return *p.CardFaces[1].ImageURIs
}

// ResolvedTypeLine returns the printing's type line, falling back to the
// first card face.
func (p *Print) ResolvedTypeLine() string {
	if p == nil {
		return ""
	}
	if p.TypeLine != "" {
		return p.TypeLine
	}
	if len(p.CardFaces) > 0 {
		return p.CardFaces[0].TypeLine
	}
	return ""
}

// ListResult is the API's paginated card list envelope.
type ListResult struct {
	Data    []*Print `json:"data"`
	HasMore bool     `json:"has_more"`
}

// NotFoundError indicates the API returned 404 for a resource.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// APIError is a structured error response from the API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scryfall API error (%d %s): %s", e.Status, e.Code, e.Details)
}
