package lingoseo

import "testing"

func TestHashTextTrims(t *testing.T) {
	want := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e"
	for _, in := range []string{"Hello World", "  Hello World", "Hello World \n"} {
		if got := HashText(in); got != want {
			t.Errorf("HashText(%q) = %s", in, got)
		}
	}
}

func TestChecksum(t *testing.T) {
	if Checksum([]byte("Hello World")) != HashText("Hello World") {
		t.Error("Checksum of untrimmed-equal input should match HashText")
	}
	if Checksum([]byte(" a")) == Checksum([]byte("a")) {
		t.Error("Checksum must not trim")
	}
}

func TestFillKey(t *testing.T) {
	if got := FillKey("abc", "fr_CH"); got != "abc:fr_CH" {
		t.Errorf("FillKey = %q", got)
	}
}
