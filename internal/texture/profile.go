package texture

import (
	"fmt"
	"strings"
)

// Profile selects the compressor's quality/speed trade-off
type Profile string

const (
	ProfilePreview Profile = "preview"
	ProfileFull    Profile = "full"
)

// ParseProfile accepts "preview" or "full"; an empty string means preview
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProfilePreview:
		return ProfilePreview, nil
	case ProfileFull:
		return ProfileFull, nil
	default:
		return "", fmt.Errorf("unsupported compression profile: %s (supported: preview, full)", s)
	}
}

func (p Profile) String() string {
	return string(p)
}
