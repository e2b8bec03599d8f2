// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 這個包包含了各種中間件函數，用於在 HTTP 請求處理過程中執行額外的操作。
// 目前只有 JWT 身份驗證，之後的限流、日誌等跨請求功能也放在這裡。
package middleware
