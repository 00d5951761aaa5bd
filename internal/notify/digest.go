package notify

import (
	"html/template"
	"strings"

	"github.com/mrodal/inmomatch/internal/listing"
)

var digestTmpl = template.Must(template.New("digest").Parse(`<html>
<body>
<h2>New listings matching your saved search</h2>
<ul>
{{range .}}  <li><strong>{{.Title}}</strong> &mdash; {{.FormatPrice}} &mdash; {{.Location}}</li>
{{end}}</ul>
<p>You are receiving this because you saved a search alert. Manage your alerts from your account page.</p>
</body>
</html>
`))

// RenderDigest renders the digest email body for one saved search's
// matches (title, price, and location per match)
func RenderDigest(matches []listing.Listing) (string, error) {
	var buf strings.Builder
	if err := digestTmpl.Execute(&buf, matches); err != nil {
		return "", err
	}
	return buf.String(), nil
}
