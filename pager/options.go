package pager

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DisplayMode decides whether an optional part of the pager is rendered.
type DisplayMode int

const (
	// IfNeeded renders the part only when it leads somewhere useful. What
	// "useful" means differs per part.
	IfNeeded DisplayMode = iota
	// Always renders the part, disabled when it has nowhere to go.
	Always
	// Never omits the part.
	Never
)

func (d DisplayMode) String() string {
	switch d {
	case IfNeeded:
		return "if_needed"
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return fmt.Sprintf("DisplayMode(%d)", int(d))
	}
}

// ParseDisplayMode parses the String form of a DisplayMode, case-insensitively.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "if_needed", "ifneeded", "":
		return IfNeeded, nil
	case "always":
		return Always, nil
	case "never":
		return Never, nil
	}
	return IfNeeded, fmt.Errorf("unknown display mode %q", s)
}

// show is the single three-way decision every optional part goes through.
func (d DisplayMode) show(needed bool) bool {
	switch d {
	case Always:
		return true
	case IfNeeded:
		return needed
	default:
		return false
	}
}

// Position places the item-slice summary relative to the page numbers.
type Position int

const (
	Start Position = iota
	End
)

// LinkTransform receives a list item and the link built for it, and returns
// the element to use as the list item. The link has not been appended to li
// yet; the transform is responsible for placing it. It is only called for
// items that are neither disabled nor the current page.
type LinkTransform func(li, link *Element) *Element

// Options configures the pager. Format strings use fmt verbs; the link formats,
// EllipsesFormat and DelimiterBetweenPageNumbers are trusted markup and are
// written unescaped.
type Options struct {
	// Display controls the whole pager. IfNeeded hides it for a single page.
	Display DisplayMode

	// IfNeeded: first/last links appear when the first/last page is outside
	// the visible window; previous/next links appear when not on the
	// first/last page.
	DisplayLinkToFirstPage    DisplayMode
	DisplayLinkToLastPage     DisplayMode
	DisplayLinkToPreviousPage DisplayMode
	DisplayLinkToNextPage     DisplayMode

	DisplayLinkToIndividualPages       bool
	DisplayPageCountAndCurrentLocation bool
	DisplayItemSliceAndTotal           bool
	ItemSliceAndTotalPosition          Position

	// MaximumPageNumbersToDisplay limits the page-number window. Zero or a
	// negative value shows every page.
	MaximumPageNumbersToDisplay int

	DisplayEllipsesWhenNotShowingAllPageNumbers bool
	// EllipsesAsLinks makes each ellipsis jump to the page just outside the window.
	EllipsesAsLinks bool
	EllipsesFormat  string

	LinkToFirstPageFormat      string
	LinkToPreviousPageFormat   string
	LinkToIndividualPageFormat string // receives the page number
	LinkToNextPageFormat       string
	LinkToLastPageFormat       string

	PageCountAndCurrentLocationFormat string // page number, page count
	ItemSliceAndTotalFormat           string // first item, last item, total

	// DisplayPageNumber overrides LinkToIndividualPageFormat.
	DisplayPageNumber func(page int) string

	// DelimiterBetweenPageNumbers is placed between consecutive page numbers.
	DelimiterBetweenPageNumbers string

	ClassToApplyToFirstListItemInPager string
	ClassToApplyToLastListItemInPager  string

	ContainerDivClasses []string
	UlElementClasses    []string
	LiElementClasses    []string
	PageClasses         []string // applied to every link element

	ActiveLiElementClass   string
	DisabledLiElementClass string
	EllipsesElementClass   string
	FirstElementClass      string
	PreviousElementClass   string
	NextElementClass       string
	LastElementClass       string
	SummaryElementClass    string

	// Language selects number formatting for the summary texts.
	Language language.Tag

	TransformLink LinkTransform
}

// DefaultOptions is the classic pager: previous/next when needed, up to ten
// page numbers, ellipses around the window.
func DefaultOptions() Options {
	return Options{
		Display:                      IfNeeded,
		DisplayLinkToFirstPage:       IfNeeded,
		DisplayLinkToLastPage:        IfNeeded,
		DisplayLinkToPreviousPage:    IfNeeded,
		DisplayLinkToNextPage:        IfNeeded,
		DisplayLinkToIndividualPages: true,
		ItemSliceAndTotalPosition:    Start,
		MaximumPageNumbersToDisplay:  10,

		DisplayEllipsesWhenNotShowingAllPageNumbers: true,

		EllipsesAsLinks: true,
		EllipsesFormat:  "&#8230;",

		LinkToFirstPageFormat:      "&lt;&lt;",
		LinkToPreviousPageFormat:   "&lt;",
		LinkToIndividualPageFormat: "%d",
		LinkToNextPageFormat:       "&gt;",
		LinkToLastPageFormat:       "&gt;&gt;",

		PageCountAndCurrentLocationFormat: "Page %d of %d.",
		ItemSliceAndTotalFormat:           "Showing items %d through %d of %d.",

		ContainerDivClasses: []string{"pagination-container"},
		UlElementClasses:    []string{"pagination"},

		ActiveLiElementClass:   "active",
		DisabledLiElementClass: "disabled",
		EllipsesElementClass:   "PagedList-ellipses",
		FirstElementClass:      "PagedList-skipToFirst",
		PreviousElementClass:   "PagedList-skipToPrevious",
		NextElementClass:       "PagedList-skipToNext",
		LastElementClass:       "PagedList-skipToLast",
		SummaryElementClass:    "PagedList-pageCountAndLocation",

		Language: language.English,
	}
}

// Classic is an alias of DefaultOptions.
func Classic() Options {
	return DefaultOptions()
}

// ClassicPlusFirstAndLast always shows all four navigation links.
func ClassicPlusFirstAndLast() Options {
	o := DefaultOptions()
	o.DisplayLinkToFirstPage = Always
	o.DisplayLinkToLastPage = Always
	o.DisplayLinkToPreviousPage = Always
	o.DisplayLinkToNextPage = Always
	return o
}

// Minimal shows only previous and next.
func Minimal() Options {
	o := DefaultOptions()
	o.DisplayLinkToFirstPage = Never
	o.DisplayLinkToLastPage = Never
	o.DisplayLinkToPreviousPage = Always
	o.DisplayLinkToNextPage = Always
	o.DisplayLinkToIndividualPages = false
	return o
}

// MinimalWithPageCountText is Minimal plus "Page x of y".
func MinimalWithPageCountText() Options {
	o := Minimal()
	o.DisplayPageCountAndCurrentLocation = true
	return o
}

// MinimalWithItemCountText is Minimal plus "Showing items a through b of n".
func MinimalWithItemCountText() Options {
	o := Minimal()
	o.DisplayItemSliceAndTotal = true
	return o
}

// PageNumbersOnly shows page numbers and nothing else.
func PageNumbersOnly() Options {
	o := DefaultOptions()
	o.DisplayLinkToFirstPage = Never
	o.DisplayLinkToLastPage = Never
	o.DisplayLinkToPreviousPage = Never
	o.DisplayLinkToNextPage = Never
	o.DisplayEllipsesWhenNotShowingAllPageNumbers = false
	return o
}

// OnlyShowFivePagesAtATime narrows the window to five page numbers.
func OnlyShowFivePagesAtATime() Options {
	o := DefaultOptions()
	o.DisplayLinkToFirstPage = Never
	o.DisplayLinkToLastPage = Never
	o.DisplayLinkToPreviousPage = Always
	o.DisplayLinkToNextPage = Always
	o.MaximumPageNumbersToDisplay = 5
	return o
}

// Bootstrap matches Bootstrap's pagination component markup.
func Bootstrap() Options {
	o := DefaultOptions()
	o.UlElementClasses = []string{"pagination"}
	o.LiElementClasses = []string{"page-item"}
	o.PageClasses = []string{"page-link"}
	o.ContainerDivClasses = []string{"pagination-container"}
	return o
}

// Tailwind styles the pager with Tailwind utility classes. Per-item colours
// live on the active and disabled classes because LiElementClasses are added
// last and would win any merge conflict.
func Tailwind() Options {
	o := DefaultOptions()
	o.ContainerDivClasses = []string{"flex justify-center"}
	o.UlElementClasses = []string{"inline-flex -space-x-px text-sm"}
	o.LiElementClasses = []string{"px-3 py-2 border border-gray-300"}
	o.PageClasses = []string{"hover:underline"}
	o.ActiveLiElementClass = "active bg-blue-50 font-semibold"
	o.DisabledLiElementClass = "disabled opacity-50"
	o.ClassToApplyToFirstListItemInPager = "rounded-s-lg"
	o.ClassToApplyToLastListItemInPager = "rounded-e-lg"
	return o
}

var presets = map[string]func() Options{
	"default":                        DefaultOptions,
	"classic":                        Classic,
	"classic_plus_first_and_last":    ClassicPlusFirstAndLast,
	"minimal":                        Minimal,
	"minimal_with_page_count_text":   MinimalWithPageCountText,
	"minimal_with_item_count_text":   MinimalWithItemCountText,
	"page_numbers_only":              PageNumbersOnly,
	"only_show_five_pages_at_a_time": OnlyShowFivePagesAtATime,
	"bootstrap":                      Bootstrap,
	"tailwind":                       Tailwind,
}

// PresetByName returns a named preset.
func PresetByName(name string) (Options, error) {
	fn, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Options{}, fmt.Errorf("unknown pager preset %q", name)
	}
	return fn(), nil
}

// GoToFormOptions configures GoToPageForm.
type GoToFormOptions struct {
	LabelFormat        string
	SubmitButtonFormat string
	InputFieldName     string
	InputFieldType     string
	InputFieldClass    string
	InputWidth         int // pixels, 0 omits the style
	SubmitButtonClass  string
	SubmitButtonWidth  int
	FormClass          string
}

// DefaultGoToFormOptions returns the stock "Go to page" form configuration.
func DefaultGoToFormOptions() GoToFormOptions {
	return GoToFormOptions{
		LabelFormat:        "Go to page:",
		SubmitButtonFormat: "Go",
		InputFieldName:     "page",
		InputFieldType:     "number",
		InputWidth:         50,
		SubmitButtonWidth:  50,
		FormClass:          "PagedList-goToPage",
	}
}
