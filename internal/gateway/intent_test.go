package gateway

import (
	"testing"
)

func TestIntentRoundTrip(t *testing.T) {
	intent := Intent{
		SubjectKind: SubjectClubMembership,
		SubjectRef:  42,
		PayerEmail:  "a@x.com",
		DisplayName: "Chess Club",
	}

	decoded, err := DecodeIntent(intent.Encode())
	if err != nil {
		t.Fatalf("DecodeIntent returned error: %v", err)
	}
	if decoded != intent {
		t.Errorf("round trip mismatch: %+v != %+v", decoded, intent)
	}
}

func TestDecodeIntent_Invalid(t *testing.T) {
	cases := []struct {
		name string
		meta map[string]string
	}{
		{"NilMetadata", nil},
		{"Empty", map[string]string{}},
		{"UnknownVersion", map[string]string{
			"version": "99", "subject_kind": "club_membership", "subject_ref": "1", "payer_email": "a@x.com",
		}},
		{"UnknownKind", map[string]string{
			"version": "1", "subject_kind": "raffle_ticket", "subject_ref": "1", "payer_email": "a@x.com",
		}},
		{"BadRef", map[string]string{
			"version": "1", "subject_kind": "club_membership", "subject_ref": "abc", "payer_email": "a@x.com",
		}},
		{"ZeroRef", map[string]string{
			"version": "1", "subject_kind": "club_membership", "subject_ref": "0", "payer_email": "a@x.com",
		}},
		{"MissingPayer", map[string]string{
			"version": "1", "subject_kind": "club_membership", "subject_ref": "1",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeIntent(tc.meta); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}
