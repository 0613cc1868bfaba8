package chemdraw

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ChemDraw-AI/internal/config"
)

func TestImagePolicy_Resolve(t *testing.T) {
	p := NewImagePolicy(config.ImagesConfig{})

	tests := []struct {
		url     string
		allowed bool
	}{
		{waterURL, true},
		{"https://cactus.nci.nih.gov/chemical/structure/C6H6/image", true},
		{"https://cactus.nci.nih.gov/other/C6H6", false},
		{"https://cactus.nci.nih.gov/chemical/structure/../../other.png", false},
		{"https://cactus.nci.nih.gov/chemical/structure/%2e%2e/%2e%2e/other.png", false},
		{"https://cactus.nci.nih.gov/chemical/structure/./C6H6/image", true},
		{"https://cactus.nci.nih.gov/chemical/structure/", true},
		{"https://www.commonchemistry.org/structure.png", true},
		{"https://picsum.photos/200", true},
		{"https://upload.wikimedia.org/wikipedia/commons/a/a1/Water.svg", true},
		{"https://UPLOAD.Wikimedia.org/x.png", true},
		{"https://pubchem.ncbi.nlm.nih.gov:443/image/x.png", true},
		{"http://pubchem.ncbi.nlm.nih.gov/image/x.png", false},
		{"https://pubchem.ncbi.nlm.nih.gov:8443/image/x.png", false},
		{"https://user:pw@pubchem.ncbi.nlm.nih.gov/image/x.png", false},
		{"https://pubchem.ncbi.nlm.nih.gov.evil.com/x.png", false},
		{"https://example.com/water.png", false},
		{"not a url", false},
		{"", false},
		{"//pubchem.ncbi.nlm.nih.gov/x.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			src, rejected := p.Resolve(tt.url)
			assert.Equal(t, tt.allowed, p.Allowed(tt.url))
			assert.Equal(t, !tt.allowed, rejected)
			if tt.allowed {
				assert.Equal(t, tt.url, src)
			} else {
				assert.Equal(t, config.DefaultPlaceholder, src)
			}
		})
	}
}

func TestImagePolicy_Update(t *testing.T) {
	p := NewImagePolicy(config.ImagesConfig{})
	assert.True(t, p.Allowed(waterURL))

	p.Update(config.ImagesConfig{
		Allowed:        []config.ImagePattern{{Host: "images.example.org", PathPrefix: "/chem/"}},
		PlaceholderURL: "https://images.example.org/chem/none.png",
	})

	assert.False(t, p.Allowed(waterURL))
	assert.True(t, p.Allowed("https://images.example.org/chem/h2o.png"))
	assert.False(t, p.Allowed("https://images.example.org/other/h2o.png"))
	src, rejected := p.Resolve(waterURL)
	assert.True(t, rejected)
	assert.Equal(t, "https://images.example.org/chem/none.png", src)
}

//Personal.AI order the ending
