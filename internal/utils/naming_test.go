package utils

import (
	"testing"
)

// TestToSnakeCase 测试 ToSnakeCase 函数，参考 GORM 的测试用例
// 参考: gorm/schema/naming_test.go
func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"":                          "",
		"x":                         "x",
		"X":                         "x",
		"userRestrictions":          "user_restrictions",
		"ThisIsATest":               "this_is_a_test",
		"PFAndESI":                  "pf_and_esi",
		"AbcAndJkl":                 "abc_and_jkl",
		"EmployeeID":                "employee_id",
		"SKU_ID":                    "sku_id",
		"FieldX":                    "field_x",
		"HTTPAndSMTP":               "http_and_smtp",
		"HTTPServerHandlerForURLID": "http_server_handler_for_url_id",
		"UUID":                      "uuid",
		"HTTPURL":                   "http_url",
		"HTTP_URL":                  "http_url",
		"SHA256Hash":                "sha256_hash",
		"SHA256HASH":                "sha256_hash",
		"UserID":                    "user_id",
		"APIKey":                    "api_key",
		"HTTPRequest":               "http_request",
		"XMLParser":                 "xml_parser",
		"JSONData":                  "json_data",
		"IPAddress":                 "ip_address",
		"URLPath":                   "url_path",
		"SSHKey":                    "ssh_key",
		"TLSConfig":                 "tls_config",
		"CPUUsage":                  "cpu_usage",
		"RAMSize":                   "ram_size",
		"HappyBodyIDs":              "happy_body_ids",
	}

	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			result := ToSnakeCase(input)
			if result != expected {
				t.Errorf("ToSnakeCase(%q) = %q, want %q", input, result, expected)
			}
		})
	}
}

func TestReceiverName(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		taken    []string
		want     string
	}{
		{name: "首字母小写", typeName: "StudentDto", want: "s"},
		{name: "缩略词", typeName: "URLSet", want: "u"},
		{name: "与类型参数冲突", typeName: "Box", taken: []string{"b"}, want: "box"},
		{name: "关键字", typeName: "Go", taken: []string{"g"}, want: "src"},
		{name: "全部冲突", typeName: "Type", taken: []string{"t", "src", "self"}, want: "src1"},
		{name: "空类型名", typeName: "", want: "src"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReceiverName(tt.typeName, tt.taken...); got != tt.want {
				t.Errorf("ReceiverName(%q, %v) = %q, want %q", tt.typeName, tt.taken, got, tt.want)
			}
		})
	}
}
