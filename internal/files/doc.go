// Package files manages the on-disk document templates.
//
// Each TemplateStore owns one active template path and an optional read-only
// fallback. The active file is created from the fallback the first time it
// is needed, and uploads replace it by writing a temp file next to it and
// renaming it into place, so readers never see a partially written template.
//
// Example usage:
//
//	calendar := files.NewTemplateStore("calendar", "/data/Template.docx", "/app/Template.docx", logger)
//
//	path, err := calendar.Path()
//	if errors.Is(err, files.ErrTemplateNotFound) {
//	    // neither file exists
//	}
//
//	info, err := calendar.Update(uploaded)
package files
