package model

import "fmt"

// FeatureKind identifies a metered generation operation.
type FeatureKind string

const (
	FeatureWebsiteBuilder      FeatureKind = "WEBSITE_BUILDER"
	FeatureWebAppBuilder       FeatureKind = "WEB_APP_BUILDER"
	FeatureMobileAppBuilder    FeatureKind = "MOBILE_APP_BUILDER"
	FeatureAIAgentCreator      FeatureKind = "AI_AGENT_CREATOR"
	FeatureTextToImage         FeatureKind = "TEXT_TO_IMAGE"
	FeaturePhotoEditing        FeatureKind = "PHOTO_EDITING"
	FeatureDesignerTool        FeatureKind = "DESIGNER_TOOL"
	FeatureToolCreator         FeatureKind = "TOOL_CREATOR"
	FeatureTextToVideo         FeatureKind = "TEXT_TO_VIDEO"
	FeaturePhotoToVideo        FeatureKind = "PHOTO_TO_VIDEO"
	FeatureTextToVoice         FeatureKind = "TEXT_TO_VOICE"
	FeatureAIVideoGenerator    FeatureKind = "AI_VIDEO_GENERATOR"
	FeatureSmartQuestion       FeatureKind = "SMART_QUESTION"
	FeatureJSONPromptGenerator FeatureKind = "JSON_PROMPT_GENERATOR"
)

// AllFeatureKinds lists every recognized feature kind in display order.
var AllFeatureKinds = []FeatureKind{
	FeatureWebsiteBuilder,
	FeatureWebAppBuilder,
	FeatureMobileAppBuilder,
	FeatureAIAgentCreator,
	FeatureTextToImage,
	FeaturePhotoEditing,
	FeatureDesignerTool,
	FeatureToolCreator,
	FeatureTextToVideo,
	FeaturePhotoToVideo,
	FeatureTextToVoice,
	FeatureAIVideoGenerator,
	FeatureSmartQuestion,
	FeatureJSONPromptGenerator,
}

// String returns the string representation of the feature kind.
func (f FeatureKind) String() string {
	return string(f)
}

// IsValid checks if the feature kind is one of the recognized kinds.
func (f FeatureKind) IsValid() bool {
	switch f {
	case FeatureWebsiteBuilder, FeatureWebAppBuilder, FeatureMobileAppBuilder,
		FeatureAIAgentCreator, FeatureTextToImage, FeaturePhotoEditing,
		FeatureDesignerTool, FeatureToolCreator, FeatureTextToVideo,
		FeaturePhotoToVideo, FeatureTextToVoice, FeatureAIVideoGenerator,
		FeatureSmartQuestion, FeatureJSONPromptGenerator:
		return true
	}
	return false
}

// IsImage reports whether the kind produces an image.
func (f FeatureKind) IsImage() bool {
	return f == FeatureTextToImage || f == FeaturePhotoEditing
}

// ParseFeatureKind parses a raw feature kind.
func ParseFeatureKind(s string) (FeatureKind, error) {
	kind := FeatureKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown feature kind %q", s)
	}
	return kind, nil
}
