package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"021 461 9344", "+27214619344"},
		{"+27 82 555 1234", "+27825551234"},
		{"  0825551234 ", "+27825551234"},
		// Unparseable input comes back trimmed, not empty.
		{"not a number", "not a number"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
