// Package notify builds and dispatches the two email outcomes: the scored
// results digest and the empty-result notice.
package notify

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/arokua/job-hunter/internal/model"
	"github.com/arokua/job-hunter/pkg/mailer"
)

// RelevantThreshold is the minimum score for a job to count toward the
// subject-line match count. The digest body still lists every scored row.
const RelevantThreshold = 20.0

//go:embed digest.tmpl
var digestTmpl string

var digest = template.Must(template.New("digest").Parse(digestTmpl))

const dateFormat = "02 Jan 2006"

// Notifier composes and sends digest and empty-notice emails.
type Notifier struct {
	mail mailer.Client
	now  func() time.Time
}

// New creates a Notifier dispatching through the given mail client.
func New(mail mailer.Client) *Notifier {
	return &Notifier{mail: mail, now: time.Now}
}

// NewWithClock creates a Notifier with a fixed clock (for testing).
func NewWithClock(mail mailer.Client, now func() time.Time) *Notifier {
	return &Notifier{mail: mail, now: now}
}

// RelevantCount returns how many jobs score at or above the threshold.
func RelevantCount(jobs []model.Job) int {
	n := 0
	for _, j := range jobs {
		if j.Score >= RelevantThreshold {
			n++
		}
	}
	return n
}

// SendDigest renders and sends the scored results digest.
func (n *Notifier) SendDigest(ctx context.Context, to string, jobs []model.Job) error {
	today := n.now().Format(dateFormat)
	relevant := RelevantCount(jobs)

	var subject string
	if relevant > 0 {
		subject = fmt.Sprintf("Job Hunter: %d relevant jobs (%s)", relevant, today)
	} else {
		subject = fmt.Sprintf("Job Hunter: No strong matches today (%s)", today)
	}

	var body strings.Builder
	err := digest.Execute(&body, struct {
		Date     string
		Relevant int
		Jobs     []model.Job
	}{Date: today, Relevant: relevant, Jobs: jobs})
	if err != nil {
		return eris.Wrap(err, "notify: render digest")
	}

	return n.mail.Send(ctx, mailer.Message{To: to, Subject: subject, HTML: body.String()})
}

// SendEmptyNotice sends the fixed no-results notice for the scrape date.
func (n *Notifier) SendEmptyNotice(ctx context.Context, to string) error {
	today := n.now().Format(dateFormat)
	subject := fmt.Sprintf("Job Hunter: No jobs found (%s)", today)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html><body style="font-family:sans-serif;padding:20px;">
<h2>Job Hunter - No Jobs Found</h2>
<p>Your scrape on %s returned no results.</p>
<p>This can happen if the job boards are rate-limiting or if the search criteria are too narrow.</p>
<p>Try broadening your location or role preferences.</p>
</body></html>`, today)

	return n.mail.Send(ctx, mailer.Message{To: to, Subject: subject, HTML: html})
}
