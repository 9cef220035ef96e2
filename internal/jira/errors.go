package jira

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	noRecordCode   = "NO_RECORD"
	xmlParseCode   = "XML_PARSE_FAILED"
	readSourceCode = "SOURCE_READ_FAILED"
)

// ErrNoRecord is returned when the export contains no item element.
var ErrNoRecord = errors.New("no item found in XML")

func wrapNoRecord() error {
	return goerrors.Wrap(ErrNoRecord, goerrors.CategoryValidation, "malformed export").
		WithTextCode(noRecordCode)
}

func wrapParseError(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "parse export XML").
		WithTextCode(xmlParseCode)
}

func wrapReadError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "read export").
		WithTextCode(readSourceCode)
}
