package corepoint

import (
	"errors"
	"fmt"
)

// FailureKind categorizes why an image was rejected.
type FailureKind string

const (
	KindInvalidInput   FailureKind = "invalid_input"
	KindLowQuality     FailureKind = "low_quality"
	KindNoCandidates   FailureKind = "no_candidates"
	KindLowConfidence  FailureKind = "low_confidence"
	KindMalformedPatch FailureKind = "malformed_patch"
	KindFault          FailureKind = "fault"
)

// Failure describes a rejected image.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`

	// Value is the offending score for KindLowQuality and KindLowConfidence.
	Value float64 `json:"value,omitempty"`

	// Detail is the text of Cause.
	Detail string `json:"detail,omitempty"`
	Cause  error  `json:"-"`
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Cause)
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Cause }

// IsKind reports whether err is, or wraps, a *Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}

func invalidInput(msg string) *Failure {
	return &Failure{Kind: KindInvalidInput, Message: msg}
}

func lowQuality(score float64) *Failure {
	return &Failure{Kind: KindLowQuality, Message: "Image quality too low for processing", Value: score}
}

func noCandidates() *Failure {
	return &Failure{Kind: KindNoCandidates, Message: "No core point candidates found"}
}

func lowConfidence(conf float64) *Failure {
	return &Failure{
		Kind:    KindLowConfidence,
		Message: fmt.Sprintf("Core point confidence too low: %f", conf),
		Value:   conf,
	}
}

func malformedPatch() *Failure {
	return &Failure{Kind: KindMalformedPatch, Message: "Failed to extract valid ROI"}
}

func fault(cause error) *Failure {
	return &Failure{Kind: KindFault, Message: "Exception during processing", Detail: cause.Error(), Cause: cause}
}
