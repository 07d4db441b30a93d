package core

import (
	"fmt"
	"strings"
)

const (
	ParamOrigin      = "origin"
	ParamIntegration = "integration"
	ParamName        = "name"
)

// OriginIntegration is a named, origin scoped configuration record. Body holds
// plaintext only inside the gateway; once it is placed on a request it is
// ciphertext.
type OriginIntegration struct {
	Origin      string `json:"origin"`
	Integration string `json:"integration"`
	Name        string `json:"name"`
	Body        string `json:"body,omitempty"`
}

func (i OriginIntegration) Key() IntegrationKey {
	return IntegrationKey{
		Origin:      i.Origin,
		Integration: i.Integration,
		Name:        i.Name,
	}
}

type IntegrationKey struct {
	Origin      string `json:"origin"`
	Integration string `json:"integration"`
	Name        string `json:"name"`
}

func (k IntegrationKey) Validate() error {
	if strings.TrimSpace(k.Origin) == "" {
		return fmt.Errorf("core: origin is required")
	}
	if strings.TrimSpace(k.Integration) == "" {
		return fmt.Errorf("core: integration is required")
	}
	if strings.TrimSpace(k.Name) == "" {
		return fmt.Errorf("core: name is required")
	}
	return nil
}

func (k IntegrationKey) String() string {
	return k.Origin + "/" + k.Integration + "/" + k.Name
}

type OriginIntegrationNames struct {
	Origin      string   `json:"origin"`
	Integration string   `json:"integration"`
	Names       []string `json:"names"`
}

// NetOK is the empty acknowledgement the backend returns for mutations.
type NetOK struct{}

// Caller is the identity resolved by the authentication layer.
type Caller struct {
	SessionID string
}

// CallerContext pairs the caller with the origin it is acting on. It is only
// used for the authorization decision.
type CallerContext struct {
	Caller Caller
	Origin string
}

// ValidatedParams maps each required route parameter to its value.
type ValidatedParams map[string]string

func (p ValidatedParams) Origin() string      { return p[ParamOrigin] }
func (p ValidatedParams) Integration() string { return p[ParamIntegration] }
func (p ValidatedParams) Name() string        { return p[ParamName] }

type CacheDirective string

const (
	CacheDefault CacheDirective = ""
	CacheNoStore CacheDirective = "no-store"
)

type NamesResult struct {
	Names OriginIntegrationNames
	Cache CacheDirective
}
