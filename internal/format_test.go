package internal

import "testing"

func TestClassifyExtension(t *testing.T) {
	testCases := []struct {
		ext      string
		expected MediaKind
	}{
		{".jpg", KindImage},
		{".jpeg", KindImage},
		{".png", KindImage},
		{".gif", KindImage},
		{".heic", KindImage},
		{".HEIC", KindImage},
		{".JPG", KindImage},
		{"jpg", KindImage},
		{".mp4", KindVideo},
		{".mov", KindVideo},
		{".avi", KindVideo},
		{".mkv", KindVideo},
		{".m4v", KindVideo},
		{".MOV", KindVideo},
		{".txt", KindUnsupported},
		{".pdf", KindUnsupported},
		{".webm", KindUnsupported},
		{"", KindUnsupported},
	}

	for _, tc := range testCases {
		if got := ClassifyExtension(tc.ext); got != tc.expected {
			t.Errorf("ClassifyExtension(%q) = %v, expected %v", tc.ext, got, tc.expected)
		}
	}
}

func TestClassifierCustomExtensions(t *testing.T) {
	cl := NewClassifier([]string{".webp", "JPG"}, []string{"webm"})

	if cl.Extension(".webp") != KindImage {
		t.Error("Expected image for configured .webp")
	}
	if cl.Extension(".jpg") != KindImage {
		t.Error("Expected dot and case normalization for configured JPG")
	}
	if cl.Extension(".webm") != KindVideo {
		t.Error("Expected video for configured webm")
	}
	if cl.Extension(".png") != KindUnsupported {
		t.Error("Extensions outside the configured lists must be unsupported")
	}
}

func TestConfigClassifier(t *testing.T) {
	conf := &Config{ImageExt: []string{".webp"}, VideoExt: []string{".webm"}}
	cl := conf.Classifier()
	if cl.Path("/in/a.webp") != KindImage || cl.Path("/in/b.webm") != KindVideo {
		t.Error("Configured extension lists must drive classification")
	}
	if cl.Path("/in/c.jpg") != KindUnsupported {
		t.Error("Built-in extensions must not leak into a configured classifier")
	}

	empty := &Config{}
	if empty.Classifier().Path("/in/c.jpg") != KindImage {
		t.Error("Empty lists must fall back to the built-in classifier")
	}
}

func TestClassifyPath(t *testing.T) {
	if ClassifyPath("/photos/IMG_0001.JPG") != KindImage {
		t.Error("Expected image for .JPG path")
	}
	if ClassifyPath("/videos/clip.mp4") != KindVideo {
		t.Error("Expected video for .mp4 path")
	}
	if ClassifyPath("/docs/readme.txt") != KindUnsupported {
		t.Error("Expected unsupported for .txt path")
	}
	if ClassifyPath("/docs/Makefile") != KindUnsupported {
		t.Error("Expected unsupported for extensionless path")
	}
}
