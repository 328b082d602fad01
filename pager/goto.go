package pager

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/DukeRupert/pagedlist"
)

// GoToPageForm builds a GET form that submits a page number to action. The
// input is pre-filled with the current page.
func GoToPageForm(list pagedlist.Paged, action string, opts GoToFormOptions) *Element {
	m := pagedlist.MetadataOf(list)

	form := NewElement("form").AddClass(opts.FormClass)
	form.SetAttr("action", action)
	form.SetAttr("method", "get")

	fieldset := NewElement("fieldset")

	label := NewElement("label").AppendText(opts.LabelFormat)
	label.SetAttr("for", opts.InputFieldName)

	input := NewElement("input").AddClass(opts.InputFieldClass)
	input.SetAttr("type", opts.InputFieldType)
	input.SetAttr("name", opts.InputFieldName)
	input.SetAttr("id", opts.InputFieldName)
	input.SetAttr("value", strconv.Itoa(m.PageNumber()))
	if opts.InputFieldType == "number" {
		input.SetAttr("min", "1")
		if count := m.PageCount(); count > 0 {
			input.SetAttr("max", strconv.Itoa(count))
		}
	}
	if opts.InputWidth > 0 {
		input.SetAttr("style", "width: "+strconv.Itoa(opts.InputWidth)+"px")
	}

	submit := NewElement("input").AddClass(opts.SubmitButtonClass)
	submit.SetAttr("type", "submit")
	submit.SetAttr("value", opts.SubmitButtonFormat)
	if opts.SubmitButtonWidth > 0 {
		submit.SetAttr("style", "width: "+strconv.Itoa(opts.SubmitButtonWidth)+"px")
	}

	fieldset.AppendChild(label, input, submit)
	return form.AppendChild(fieldset)
}

// GoToPageComponent is GoToPageForm as a templ component.
func GoToPageComponent(list pagedlist.Paged, action string, opts GoToFormOptions) templ.Component {
	return GoToPageForm(list, action, opts)
}
