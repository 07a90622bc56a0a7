package util

import (
	"bytes"
	"strings"
	"testing"
)

// ============ 随机字符串测试 ============

func TestRandomString(t *testing.T) {
	// 测试正常生成
	str, err := RandomString(32)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if len(str) != 32 {
		t.Errorf("长度错误: 期望32，实际%d", len(str))
	}

	// 测试唯一性
	str2, _ := RandomString(32)
	if str == str2 {
		t.Error("应生成不同的随机字符串")
	}

	// 测试无效长度
	_, err = RandomString(0)
	if err == nil {
		t.Error("长度0应返回错误")
	}
	_, err = RandomString(-5)
	if err == nil {
		t.Error("负数长度应返回错误")
	}
}

// ============ 备份加密测试 ============

func TestBackupRoundTrip(t *testing.T) {
	key := "backup-key"

	payloads := map[string][]byte{
		"snapshot": []byte(`{"version":1,"rooms":[{"id":1,"capacity":3}],"students":[]}`),
		"unicode":  []byte(`{"students":[{"name":"Zoë Njeri"}]}`),
		"empty":    {},
		"large":    []byte(strings.Repeat(`{"item_name":"Rice","price_cent":12000},`, 500)),
	}

	for name, data := range payloads {
		blob, err := EncryptAES(key, data)
		if err != nil {
			t.Fatalf("%s: 加密失败: %v", name, err)
		}
		if len(data) > 0 && bytes.Contains(blob, data) {
			t.Errorf("%s: 密文包含明文", name)
		}

		got, err := DecryptAES(key, blob)
		if err != nil {
			t.Fatalf("%s: 解密失败: %v", name, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: 数据不匹配", name)
		}
	}
}

func TestBackupRejectsForeignBlob(t *testing.T) {
	blob, err := EncryptAES("hostel-a", []byte(`{"version":1}`))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := DecryptAES("hostel-b", blob); err == nil {
		t.Error("其他密钥加密的备份应被拒绝")
	}

	// 篡改任一字节都应校验失败
	tampered := append([]byte(nil), blob...)
	tampered[len(tampered)-1] ^= 0xFF
	if _, err := DecryptAES("hostel-a", tampered); err == nil {
		t.Error("被篡改的备份应被拒绝")
	}

	// 同一明文两次加密使用不同 nonce
	again, _ := EncryptAES("hostel-a", []byte(`{"version":1}`))
	if bytes.Equal(blob, again) {
		t.Error("两次加密结果不应相同")
	}

	for _, short := range [][]byte{nil, {1, 2, 3}} {
		if _, err := DecryptAES("hostel-a", short); err == nil {
			t.Errorf("过短数据 %v 应返回错误", short)
		}
	}
}

// ============ 字段加密测试 ============

func TestEncryptDecryptField(t *testing.T) {
	key := "audit-key"

	enc, err := EncryptField(key, "POST /api/fees {\"amount\":\"1500\"}")
	if err != nil {
		t.Fatalf("加密失败: %v", err)
	}
	if strings.Contains(enc, "/api/fees") {
		t.Error("密文不应包含明文")
	}
	if got := DecryptField(key, enc); got != "POST /api/fees {\"amount\":\"1500\"}" {
		t.Errorf("解密结果不匹配: %s", got)
	}

	// 未配置密钥时原样存储
	plain, _ := EncryptField("", "/api/rooms")
	if plain != "/api/rooms" {
		t.Errorf("空密钥应返回明文, 实际 %s", plain)
	}

	// 无法解密时返回原值
	if got := DecryptField(key, "not-base64!"); got != "not-base64!" {
		t.Errorf("非法密文应原样返回, 实际 %s", got)
	}
	if got := DecryptField("other-key", enc); got != enc {
		t.Error("错误密钥应原样返回密文")
	}
}

// ============ 性能测试 ============

func BenchmarkEncryptField(b *testing.B) {
	action := `POST /api/students {"name":"Amina","fee":"5000","room_id":3}`
	for i := 0; i < b.N; i++ {
		_, _ = EncryptField("audit-key", action)
	}
}
