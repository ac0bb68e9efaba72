package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "review",
			objectType:  "answer",
			identifier:  "abc123",
			paramsKey:   nil,
			expectedKey: "studybuddy:review:answer:abc123",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "review",
			objectType:  "answer",
			identifier:  "abc123",
			paramsKey:   []string{},
			expectedKey: "studybuddy:review:answer:abc123",
		},
		{
			name:        "with one paramsKey",
			serviceName: "history",
			objectType:  "session",
			identifier:  "01B",
			paramsKey:   []string{"records"},
			expectedKey: "studybuddy:history:session:01B:records",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "history",
			objectType:  "session",
			identifier:  "01B",
			paramsKey:   []string{"page1", "size10"},
			expectedKey: "studybuddy:history:session:01B:page1_size10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if got != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", got, tt.expectedKey)
			}
		})
	}
}
