package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shaderFields() map[string]string {
	return map[string]string{
		FieldUnityPath:   "a",
		FieldGodotPath:   "b",
		FieldInstruction: "c",
	}
}

func TestNewItem_ShaderDefaults(t *testing.T) {
	item, err := NewItem("Shader", shaderFields())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"type":        "Shader",
		"unity_path":  "a",
		"godot_path":  "b",
		"instruction": "c",
		"status":      "Open",
		"reason":      "New conversion task",
		"info":        "",
	}, item.Fields())
	assert.Equal(t, "[Shader] → b (Open)", item.String())
}

func TestNewItem_MissingGodotPath(t *testing.T) {
	_, err := NewItem("Prefab", map[string]string{FieldUnityPath: "a"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{FieldGodotPath}, verr.Missing)
	assert.Equal(t, "Prefab", verr.Kind)
	assert.Contains(t, err.Error(), "godot_path")
	assert.Error(t, verr.Unwrap())
}

func TestNewItem_RequiredFieldsPerKind(t *testing.T) {
	for _, kind := range Kinds() {
		required := kind.RequiredFields()

		t.Run(string(kind)+"/complete", func(t *testing.T) {
			fields := map[string]string{}
			for _, key := range required {
				fields[key] = "value-" + key
			}
			item, err := NewItem(string(kind), fields)
			require.NoError(t, err)
			assert.Equal(t, kind, item.Kind)
			assert.Equal(t, StatusOpen, item.Status)
		})

		for _, omit := range required {
			t.Run(string(kind)+"/without "+omit, func(t *testing.T) {
				fields := map[string]string{}
				for _, key := range required {
					if key != omit {
						fields[key] = "value-" + key
					}
				}
				_, err := NewItem(string(kind), fields)

				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, []string{omit}, verr.Missing)
			})
		}
	}
}

func TestNewItem_Validation(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		fields      map[string]string
		wantMissing []string
		wantErr     string
	}{
		{
			name:    "unknown kind",
			kind:    "Texture",
			fields:  map[string]string{FieldUnityPath: "a", FieldGodotPath: "b"},
			wantErr: `unknown kind "Texture"`,
		},
		{
			name:    "kind is case sensitive",
			kind:    "shader",
			fields:  shaderFields(),
			wantErr: "unknown kind",
		},
		{
			name:        "empty required value counts as missing",
			kind:        "Script",
			fields:      map[string]string{FieldUnityPath: "", FieldGodotPath: "b"},
			wantMissing: []string{FieldUnityPath},
		},
		{
			name:        "material lists every missing key",
			kind:        "Material",
			fields:      map[string]string{},
			wantMissing: []string{FieldUnityPath, FieldGodotPath, FieldInstruction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(tt.kind, tt.fields)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			if tt.wantMissing != nil {
				assert.Equal(t, tt.wantMissing, verr.Missing)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewItem_FieldsOverrideDefaults(t *testing.T) {
	item, err := NewItem("Animation", map[string]string{
		FieldUnityPath: "Assets/Anim/run.anim",
		FieldGodotPath: "res://anim/run.tres",
		FieldStatus:    "Blocked",
		FieldReason:    "Imported from audit",
		FieldType:      "Shader",
		"owner":        "sam",
	})
	require.NoError(t, err)

	assert.Equal(t, KindAnimation, item.Kind, "type field must not override kind")
	assert.Equal(t, "Blocked", item.Status)
	assert.Equal(t, "Imported from audit", item.Reason)
	assert.Equal(t, map[string]string{"owner": "sam"}, item.Extra)
}

func TestItem_StatusHelpers(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Item)
		want  string
	}{
		{name: "mark done", apply: (*Item).MarkDone, want: "Done"},
		{name: "mark failed", apply: (*Item).MarkFailed, want: "Failed"},
		{name: "reopen", apply: (*Item).Reopen, want: "Open"},
		{name: "custom", apply: func(it *Item) { it.SetStatus("Waiting on art") }, want: "Waiting on art"},
	}

	for _, tt := range tests {
		for _, prior := range []string{"Open", "Done", "Failed", "Something else"} {
			t.Run(tt.name+" from "+prior, func(t *testing.T) {
				item, err := NewItem("Script", map[string]string{FieldUnityPath: "a", FieldGodotPath: "b"})
				require.NoError(t, err)
				item.SetStatus(prior)

				tt.apply(item)

				assert.Equal(t, tt.want, item.Status)
				got, ok := item.Get(FieldStatus)
				assert.True(t, ok)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestItem_StatusOrDefault(t *testing.T) {
	item := &Item{Kind: KindOther}
	assert.Equal(t, StatusOpen, item.StatusOrDefault())

	item.SetStatus("Done")
	assert.Equal(t, StatusDone, item.StatusOrDefault())
}

func TestItem_SetInfo(t *testing.T) {
	item, err := NewItem("Other", map[string]string{FieldUnityPath: "a", FieldGodotPath: "b"})
	require.NoError(t, err)

	item.SetInfo("waiting for review")
	got, ok := item.Get(FieldInfo)
	assert.True(t, ok)
	assert.Equal(t, "waiting for review", got)
}

func TestItem_Get(t *testing.T) {
	item, err := NewItem("Prefab", map[string]string{
		FieldUnityPath: "Assets/Player.prefab",
		FieldGodotPath: "res://player.tscn",
		"hash":         "abc",
	})
	require.NoError(t, err)

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{key: FieldType, want: "Prefab", wantOK: true},
		{key: FieldUnityPath, want: "Assets/Player.prefab", wantOK: true},
		{key: FieldInfo, want: "", wantOK: true},
		{key: "hash", want: "abc", wantOK: true},
		{key: FieldInstruction, wantOK: false},
		{key: "missing", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := item.Get(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItem_Set(t *testing.T) {
	item, err := NewItem("Prefab", map[string]string{FieldUnityPath: "a", FieldGodotPath: "b"})
	require.NoError(t, err)

	require.NoError(t, item.Set(FieldGodotPath, "res://new.tscn"))
	require.NoError(t, item.Set("note", "check collisions"))
	assert.Equal(t, "res://new.tscn", item.GodotPath)
	assert.Equal(t, "check collisions", item.Extra["note"])

	assert.Error(t, item.Set(FieldType, "Shader"))
	assert.Error(t, item.Set("", "x"))
	assert.Equal(t, KindPrefab, item.Kind)
}

func TestItem_String(t *testing.T) {
	item := &Item{Kind: KindMaterial, Status: "Failed"}
	assert.Equal(t, "[Material] → <no path> (Failed)", item.String())
}

func TestItem_Clone(t *testing.T) {
	item, err := NewItem("Prefab", map[string]string{FieldUnityPath: "a", FieldGodotPath: "b", "x": "1"})
	require.NoError(t, err)

	c := item.Clone()
	c.MarkDone()
	c.Extra["x"] = "2"

	assert.Equal(t, StatusOpen, item.Status)
	assert.Equal(t, "1", item.Extra["x"])
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
