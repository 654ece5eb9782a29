// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package switchboard

import (
	"github.com/pdiddy/doc-dimensions/pkg/types"
)

// AnalyzeFile reads the document at path and analyzes it. The document's age
// is taken from its modification time unless opts.DaysSinceUpdate is set.
func (s *Switchboard) AnalyzeFile(path string, opts AnalyzeOptions) (Analysis, error) {
	text, err := s.read(path)
	if err != nil {
		return Analysis{}, err
	}
	if opts.DaysSinceUpdate == nil {
		days, err := s.daysSinceUpdate(path)
		if err != nil {
			return Analysis{}, err
		}
		opts.DaysSinceUpdate = days
	}
	return s.AnalyzeDocument(text, opts)
}

// ValidateFile reads the document at path and validates it.
func (s *Switchboard) ValidateFile(path string, strict bool) (types.ValidationResult, error) {
	text, err := s.read(path)
	if err != nil {
		return types.ValidationResult{}, err
	}
	return s.ValidateDocument(text, strict), nil
}

// AddStubToFile adds stub to the document at path and writes it back.
func (s *Switchboard) AddStubToFile(path string, stub types.Stub) (StubAddResult, error) {
	text, err := s.read(path)
	if err != nil {
		return StubAddResult{}, err
	}
	out, res, err := s.AddStub(text, stub)
	if err != nil {
		return StubAddResult{}, err
	}
	return res, s.write(path, text, out)
}

// ResolveStubInFile resolves a stub of the document at path and writes it
// back.
func (s *Switchboard) ResolveStubInFile(path string, sel StubSelector, res Resolution) (StubResolveResult, error) {
	text, err := s.read(path)
	if err != nil {
		return StubResolveResult{}, err
	}
	out, result, err := s.ResolveStub(text, sel, res)
	if err != nil {
		return StubResolveResult{}, err
	}
	return result, s.write(path, text, out)
}

// UpdateStubInFile updates a stub of the document at path and writes it
// back.
func (s *Switchboard) UpdateStubInFile(path string, sel StubSelector, updates StubUpdates) (StubUpdateResult, error) {
	text, err := s.read(path)
	if err != nil {
		return StubUpdateResult{}, err
	}
	out, result, err := s.UpdateStub(text, sel, updates)
	if err != nil {
		return StubUpdateResult{}, err
	}
	return result, s.write(path, text, out)
}

// ReadDocument returns the text of the document at path.
func (s *Switchboard) ReadDocument(path string) (string, error) {
	return s.read(path)
}

// ListDocuments returns the repository paths matching pattern.
func (s *Switchboard) ListDocuments(pattern string) ([]string, error) {
	if s.repo == nil {
		return nil, &Error{Kind: KindRepository, Message: "listing documents", Path: pattern, Err: ErrNoRepository}
	}
	paths, err := s.repo.List(pattern)
	if err != nil {
		return nil, &Error{Kind: KindRepository, Message: "listing documents", Path: pattern, Err: err}
	}
	return paths, nil
}

func (s *Switchboard) read(path string) (string, error) {
	if s.repo == nil {
		return "", &Error{Kind: KindRepository, Message: "reading document", Path: path, Err: ErrNoRepository}
	}
	text, err := s.repo.Read(path)
	if err != nil {
		return "", &Error{Kind: KindRepository, Message: "reading document", Path: path, Err: err}
	}
	return text, nil
}

// write stores out unless it equals the original text.
func (s *Switchboard) write(path, original, out string) error {
	if out == original {
		return nil
	}
	if err := s.repo.Write(path, out); err != nil {
		return &Error{Kind: KindRepository, Message: "writing document", Path: path, Err: err}
	}
	return nil
}

func (s *Switchboard) daysSinceUpdate(path string) (*float64, error) {
	md, err := s.repo.Metadata(path)
	if err != nil {
		return nil, &Error{Kind: KindRepository, Message: "reading document metadata", Path: path, Err: err}
	}
	if md.Modified == nil {
		return nil, nil
	}
	days := s.now().Sub(*md.Modified).Hours() / 24
	if days < 0 {
		days = 0
	}
	return &days, nil
}
