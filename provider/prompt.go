package provider

import "fmt"

// Mode is the kind of editing asked of the model.
type Mode string

const (
	QuickFix         Mode = "quick-fix"
	Balanced         Mode = "balanced"
	StyleImprovement Mode = "style-improvement"
	Academic         Mode = "academic"
	Creative         Mode = "creative"
)

// Severity is how far the model may depart from the input.
type Severity string

const (
	Minor    Severity = "minor"
	Moderate Severity = "moderate"
	Major    Severity = "major"
)

const promptTail = "Output only the revised text and nothing else. The text is:"

// DefaultStaticPrompt is the stock prompt. A static prompt equal to it does not
// override the generated one.
const DefaultStaticPrompt = "Act as a professional editor. Please make suggestions how to improve clarity, " +
	"readability, grammar, and language of the following text. Preserve the original meaning and any " +
	"technical jargon. Suggest structural changes only if they significantly improve flow or " +
	"understanding. Avoid unnecessary expansion or major reformatting (e.g., no unwarranted lists). " +
	"Try to make as little changes as possible, refrain from doing any changes when the writing is " +
	"already sufficiently clear and concise. " + promptTail

var modeInstructions = map[Mode]string{
	QuickFix: "Focus only on correcting grammar, spelling, and punctuation errors. Do not change the " +
		"writing style, tone, or structure. Make minimal changes to preserve the original voice.",
	Balanced: "Act as a professional editor. Improve clarity, readability, grammar, and language while " +
		"preserving the original meaning and technical jargon. Make balanced improvements to both " +
		"correctness and style.",
	StyleImprovement: "Focus on enhancing tone, clarity, flow, and overall writing style. Improve sentence " +
		"structure, word choice, and readability while maintaining the author's voice. Address grammar " +
		"issues as needed.",
	Academic: "Edit for formal academic writing standards. Ensure proper grammar, formal tone, clear " +
		"argumentation, and appropriate academic language. Improve clarity and precision while " +
		"maintaining scholarly voice. Pay attention to citation formatting if present.",
	Creative: "Enhance the creative voice and storytelling elements. Improve flow, rhythm, and " +
		"expressiveness while preserving the author's unique style and creativity. Focus on making the " +
		"writing more engaging and vivid.",
}

var severityModifiers = map[Severity]string{
	Minor: "Make only essential changes. Preserve the original text as much as possible and only fix " +
		"clear errors or obvious improvements.",
	Moderate: "Make balanced improvements. Suggest changes that significantly enhance the text while " +
		"respecting the original structure and style.",
	Major: "Provide comprehensive editing. Feel free to restructure sentences, improve word choice " +
		"extensively, and make substantial improvements to enhance overall quality and readability.",
}

// Prompt describes the system prompt sent with every request.
type Prompt struct {
	Mode     Mode
	Severity Severity

	// Static replaces the generated prompt unless it is empty or equal to
	// DefaultStaticPrompt.
	Static string
}

// Text returns the prompt to send.
func (p Prompt) Text() (string, error) {
	if p.Static != "" && p.Static != DefaultStaticPrompt {
		return p.Static, nil
	}

	mode, ok := modeInstructions[p.Mode]
	if !ok {
		return "", fmt.Errorf("unknown proofreading mode %q", p.Mode)
	}
	severity, ok := severityModifiers[p.Severity]
	if !ok {
		return "", fmt.Errorf("unknown severity level %q", p.Severity)
	}
	return mode + " " + severity + " " + promptTail, nil
}
