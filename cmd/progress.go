package cmd

import "github.com/pterm/pterm"

// progresser is a progress bar that does nothing when there is no bar to display
type progresser struct {
	pbar *pterm.ProgressbarPrinter
}

func newProgresser(pbar *pterm.ProgressbarPrinter) *progresser {
	return &progresser{
		pbar: pbar,
	}
}

func (p *progresser) Increment() {
	if p.pbar == nil {
		return
	}
	p.pbar.Increment()
}

func (p *progresser) Stop() {
	if p.pbar == nil {
		return
	}
	_, _ = p.pbar.Stop()
}
