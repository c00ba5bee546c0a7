package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

const scheduleHeader = "Графік відключень"

// Marks the address input next to the given label text (or placeholder).
// Disabled inputs are skipped so the poll waits until the previous field unlocks them.
const markInputJS = `((label, marker) => {
	const usable = (i) => i && !i.disabled && i.offsetParent !== null;
	let input = Array.from(document.querySelectorAll('input')).find(i => (i.placeholder || '').includes(label) && usable(i));
	if (!input) {
		const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT);
		let node;
		while ((node = walker.nextNode())) {
			if (!node.textContent.includes(label)) continue;
			const block = node.parentElement && node.parentElement.closest('div, label');
			const candidate = block && block.querySelector('input');
			if (usable(candidate)) { input = candidate; break; }
		}
	}
	if (!input) return false;
	input.setAttribute('data-outage-pick', marker);
	input.scrollIntoView({block: 'center'});
	return true;
})(%s, %s)`

// Marks the first visible autocomplete option containing the typed value
const markOptionJS = `((value, marker) => {
	const needle = value.toLowerCase();
	const options = document.querySelectorAll("[role='option'], [id$='autocomplete-list'] div, .select__option, .option, li");
	for (const el of options) {
		if (el.offsetParent !== null && (el.textContent || '').toLowerCase().includes(needle)) {
			el.setAttribute('data-outage-option', marker);
			return true;
		}
	}
	return false;
})(%s, %s)`

const markTomorrowTabJS = `(() => {
	const tab = Array.from(document.querySelectorAll('div.date'))
		.find(d => (d.innerText || d.textContent || '').toLowerCase().includes('на завтра'));
	if (!tab) return false;
	tab.setAttribute('data-outage-tab', 'tomorrow');
	return true;
})()`

const tomorrowDateJS = `(() => {
	const d = document.querySelector("[data-outage-tab='tomorrow'] span[rel='date']");
	return d ? (d.innerText || d.textContent || '') : '';
})()`

// First table inside the section that carries the schedule header
const findTableFunc = `((header) => {
	const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT);
	let node;
	while ((node = walker.nextNode())) {
		if (!node.textContent.includes(header)) continue;
		const section = node.parentElement && node.parentElement.closest('section');
		const table = section && section.querySelector('table');
		if (table) return table;
	}
	return null;
})`

// ChromePage is a SchedulePage backed by a headless Chrome session
type ChromePage struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	pageLoad    time.Duration
	step        time.Duration
	picks       int
}

// NewChromePage starts Chrome with the configured viewport
func NewChromePage(ctx context.Context, settings *Settings) (SchedulePage, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", settings.Browser.Headless),
		chromedp.WindowSize(settings.Browser.Width, settings.Browser.Height),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(debugLog))

	if err := chromedp.Run(browserCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("launching chrome: %w", err)
	}

	pageLoad := settings.Timeouts.PageLoad
	if pageLoad <= 0 {
		pageLoad = 45 * time.Second
	}

	return &ChromePage{
		ctx:         browserCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		pageLoad:    pageLoad,
		step:        settings.Timeouts.Step,
	}, nil
}

// run executes actions on the browser tab, bounded by timeout and by the caller's ctx
func (p *ChromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	stepCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(stepCtx, actions...)
}

func (p *ChromePage) Open(ctx context.Context, url string) error {
	var ready bool
	err := p.run(ctx, p.pageLoad,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Poll(`document.querySelectorAll('input').length > 0`, &ready,
			chromedp.WithPollingTimeout(p.step)),
	)
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

func (p *ChromePage) PickAutocomplete(ctx context.Context, label, value string) error {
	p.picks++
	marker := fmt.Sprintf("pick-%d", p.picks)
	inputSel := fmt.Sprintf(`input[data-outage-pick=%q]`, marker)
	optionSel := fmt.Sprintf(`[data-outage-option=%q]`, marker)

	var found bool
	err := p.run(ctx, 2*p.step,
		chromedp.Poll(jsCall(markInputJS, label, marker), &found, chromedp.WithPollingTimeout(p.step)),
		chromedp.Click(inputSel, chromedp.ByQuery),
		chromedp.SetValue(inputSel, "", chromedp.ByQuery),
		chromedp.SendKeys(inputSel, value, chromedp.ByQuery),
	)
	if err != nil {
		return &AddressSelectionError{Label: label, Value: value, Err: err}
	}

	var hasOption bool
	err = p.run(ctx, p.step,
		chromedp.Poll(jsCall(markOptionJS, value, marker), &hasOption, chromedp.WithPollingTimeout(p.step/2)),
		chromedp.Click(optionSel, chromedp.ByQuery),
	)
	if err == nil {
		return nil
	}
	if !errors.Is(err, chromedp.ErrPollingTimeout) {
		return &AddressSelectionError{Label: label, Value: value, Err: err}
	}

	// Enter usually picks the first suggestion
	debugLog("no option matched %q, pressing Enter", value)
	if err := p.run(ctx, p.step, chromedp.SendKeys(inputSel, kb.Enter, chromedp.ByQuery)); err != nil {
		return &AddressSelectionError{Label: label, Value: value, Err: err}
	}
	return nil
}

func (p *ChromePage) OpenTomorrowTab(ctx context.Context) (TabInfo, error) {
	var found bool
	err := p.run(ctx, 2*p.step,
		chromedp.Poll(markTomorrowTabJS, &found, chromedp.WithPollingTimeout(p.step)),
	)
	if errors.Is(err, chromedp.ErrPollingTimeout) {
		return TabInfo{}, ErrTomorrowTabNotFound
	}
	if err != nil {
		return TabInfo{}, fmt.Errorf("locating tomorrow tab: %w", err)
	}

	var date, before string
	err = p.run(ctx, p.step,
		chromedp.Evaluate(tomorrowDateJS, &date),
		chromedp.Evaluate(scheduleTableExpr()+`?.outerHTML || ''`, &before),
		chromedp.Click(`[data-outage-tab='tomorrow']`, chromedp.ByQuery),
	)
	if err != nil {
		return TabInfo{}, fmt.Errorf("selecting tomorrow tab: %w", err)
	}

	// The table is redrawn after the click; a timeout here only means it looked the same
	var switched bool
	settle := fmt.Sprintf(`((before) => { const t = %s; return !!t && t.outerHTML !== before; })(%s)`,
		scheduleTableExpr(), jsString(before))
	err = p.run(ctx, p.step, chromedp.Poll(settle, &switched, chromedp.WithPollingTimeout(p.step/2)))
	if err != nil && !errors.Is(err, chromedp.ErrPollingTimeout) {
		return TabInfo{}, fmt.Errorf("waiting for tomorrow table: %w", err)
	}

	return TabInfo{DateLabel: strings.TrimSpace(date)}, nil
}

func (p *ChromePage) ScheduleTableHTML(ctx context.Context) (string, error) {
	var present bool
	var html string
	err := p.run(ctx, 2*p.step,
		chromedp.Poll("!!"+scheduleTableExpr(), &present, chromedp.WithPollingTimeout(p.step)),
		chromedp.Evaluate(scheduleTableExpr()+".outerHTML", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

func (p *ChromePage) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancelTab()
	p.cancelAlloc()
	return err
}

func scheduleTableExpr() string {
	return jsCall(findTableFunc+"(%s)", scheduleHeader)
}

// jsCall fills a %s template with JSON-encoded string arguments
func jsCall(template string, args ...string) string {
	encoded := make([]any, 0, len(args))
	for _, a := range args {
		encoded = append(encoded, jsString(a))
	}
	return fmt.Sprintf(template, encoded...)
}

func jsString(s string) string {
	encoded, err := statusJSON.MarshalToString(s)
	if err != nil {
		return `""`
	}
	return encoded
}
