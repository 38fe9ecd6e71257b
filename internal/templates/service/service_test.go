package service

import (
	"strings"
	"testing"

	"educater_backend/internal/templates/repository"
)

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	tmpl := repository.Template{
		Subject: "Partnership opportunity for {{schoolName}}",
		Content: "<p>Dear {{principalName}},</p><p>Regards, {{repName}}</p>",
	}

	subject, body := Render(tmpl, Placeholders{
		SchoolName:    "Oakdale Primary",
		PrincipalName: "T. Jacobs",
		RepName:       "Thandi Nkosi",
	})

	if subject != "Partnership opportunity for Oakdale Primary" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "Dear T. Jacobs,") || !strings.Contains(body, "Regards, Thandi Nkosi") {
		t.Errorf("body = %q", body)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	tmpl := repository.Template{Content: "<p>{{schoolName}}</p>"}

	_, body := Render(tmpl, Placeholders{SchoolName: `<script>alert("x")</script>`})
	if strings.Contains(body, "<script>") {
		t.Errorf("body was not escaped: %q", body)
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	tmpl := repository.Template{Content: "{{unknown}} stays"}

	_, body := Render(tmpl, Placeholders{})
	if body != "{{unknown}} stays" {
		t.Errorf("body = %q", body)
	}
}
