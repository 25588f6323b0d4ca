package templates

import (
	"fmt"
	"html"
)

// RenderStatusUpdate generates the HTML body for the complaint status update
// email. All user-controlled values are HTML-escaped.
func RenderStatusUpdate(name, category, status string) string {
	safeName := html.EscapeString(name)
	safeCategory := html.EscapeString(category)
	safeStatus := html.EscapeString(status)

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; border: 1px solid #eee; border-radius: 5px;">
  <h2 style="color: #333;">Complaint Status Update</h2>
  <p>Hello <strong>%s</strong>,</p>
  <p>Your complaint regarding <strong>"%s"</strong> has been updated.</p>
  <p>New Status: <span style="background-color: #e3f2fd; color: #1976d2; padding: 4px 8px; border-radius: 4px; font-weight: bold;">%s</span></p>
  <br/>
  <p>Please log in to your dashboard to view more details.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="color: #777; font-size: 12px;">This is an automated message from the Fortex Early Warning System.</p>
</div>`, safeName, safeCategory, safeStatus)
}
