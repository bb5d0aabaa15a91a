// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（ユーザー向け）
	Category string // カテゴリ: auth, validation, order, inventory, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeCredentialsRequired   = "CREDENTIALS_REQUIRED"
	ErrCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	ErrCodeEmptyCart             = "EMPTY_CART"
	ErrCodeDeliveryDateRequired  = "DELIVERY_DATE_REQUIRED"
	ErrCodeInvalidDeliveryDate   = "INVALID_DELIVERY_DATE"
	ErrCodeInvalidNumber         = "INVALID_NUMBER"
	ErrCodeNegativeNumber        = "NEGATIVE_NUMBER"
	ErrCodeNoEditInProgress      = "NO_EDIT_IN_PROGRESS"
	ErrCodeInventoryUpdateFailed = "INVENTORY_UPDATE_FAILED"
	ErrCodeOrderFailed           = "ORDER_FAILED"
	ErrCodeInvalidRange          = "INVALID_RANGE"
	ErrCodeInvalidRequest        = "INVALID_REQUEST"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeInventoryItemNotFound = "INVENTORY_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound         = "ORDER_NOT_FOUND"
	ErrCodeNotificationNotFound  = "NOTIFICATION_NOT_FOUND"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeEmailInUse            = "EMAIL_IN_USE"
	ErrCodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "กรุณาเข้าสู่ระบบ",
		Category: "auth",
		Action:   "เข้าสู่ระบบแล้วลองอีกครั้ง",
	}
}

// NewCredentialsRequiredError はメールアドレスまたはパスワードが未入力の場合のエラーを生成する。
func NewCredentialsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeCredentialsRequired,
		Message:  "กรุณากรอกอีเมลและรหัสผ่าน",
		Category: "validation",
		Action:   "กรอกอีเมลและรหัสผ่านให้ครบถ้วน",
	}
}

// NewInvalidCredentialsError は認証情報が一致しない場合のエラーを生成する。
// ロックアウトやレート制限は行わない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "อีเมลหรือรหัสผ่านไม่ถูกต้อง",
		Category: "auth",
		Action:   "ตรวจสอบอีเมลและรหัสผ่านแล้วลองอีกครั้ง",
	}
}

// NewEmptyCartError はカートが空の状態で注文しようとした場合のエラーを生成する。
func NewEmptyCartError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyCart,
		Message:  "กรุณาเพิ่มสินค้าในตะกร้า",
		Category: "validation",
		Action:   "เลือกสินค้าอย่างน้อยหนึ่งรายการก่อนยืนยันการสั่งซื้อ",
	}
}

// NewDeliveryDateRequiredError は配送日が未選択の場合のエラーを生成する。
func NewDeliveryDateRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeDeliveryDateRequired,
		Message:  "กรุณาเลือกวันที่จัดส่ง",
		Category: "validation",
		Action:   "เลือกวันที่ต้องการจัดส่งแล้วลองอีกครั้ง",
	}
}

// NewInvalidDeliveryDateError は配送日がYYYY-MM-DD形式でない場合のエラーを生成する。
func NewInvalidDeliveryDateError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDeliveryDate,
		Message:  fmt.Sprintf("วันที่จัดส่งไม่ถูกต้อง: %s", value),
		Category: "validation",
		Action:   "ระบุวันที่ในรูปแบบ YYYY-MM-DD",
	}
}

// NewInvalidNumberError は在庫編集の入力値が数値でない場合のエラーを生成する。
func NewInvalidNumberError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidNumber,
		Message:  "กรุณากรอกตัวเลขให้ถูกต้อง",
		Category: "validation",
		Action:   "กรอกจำนวนคงเหลือและจำนวนขั้นต่ำเป็นตัวเลข",
	}
}

// NewNegativeNumberError は在庫編集の入力値が負数の場合のエラーを生成する。
func NewNegativeNumberError() *APIError {
	return &APIError{
		Code:     ErrCodeNegativeNumber,
		Message:  "ตัวเลขต้องมากกว่าหรือเท่ากับ 0",
		Category: "validation",
		Action:   "กรอกตัวเลขที่ไม่ติดลบ",
	}
}

// NewNoEditInProgressError は編集中の在庫アイテムがない状態で保存しようとした場合のエラーを生成する。
func NewNoEditInProgressError() *APIError {
	return &APIError{
		Code:     ErrCodeNoEditInProgress,
		Message:  "ไม่มีรายการที่กำลังแก้ไข",
		Category: "validation",
		Action:   "เลือกรายการที่ต้องการแก้ไขก่อนบันทึก",
	}
}

// NewInventoryUpdateFailedError はデータサービスが在庫更新を受け付けなかった場合のエラーを生成する。
func NewInventoryUpdateFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeInventoryUpdateFailed,
		Message:  "อัปเดตข้อมูลไม่สำเร็จ กรุณาลองอีกครั้ง",
		Category: "inventory",
		Action:   "รอสักครู่แล้วลองบันทึกอีกครั้ง",
	}
}

// NewOrderFailedError は注文の送信に失敗した場合のエラーを生成する。
// カートの内容は変更されない。
func NewOrderFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeOrderFailed,
		Message:  "เกิดข้อผิดพลาดระหว่างการสั่งซื้อ กรุณาลองอีกครั้ง",
		Category: "order",
		Action:   "ตรวจสอบตะกร้าสินค้าแล้วลองสั่งซื้ออีกครั้ง",
	}
}

// NewInvalidRangeError は分析期間がweek/month/year以外の場合のエラーを生成する。
func NewInvalidRangeError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRange,
		Message:  fmt.Sprintf("ช่วงเวลาไม่ถูกต้อง: %s", value),
		Category: "validation",
		Action:   "ระบุช่วงเวลาเป็น week, month หรือ year",
	}
}

// NewInvalidRequestError はリクエストボディやパラメータが不正な場合のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("คำขอไม่ถูกต้อง: %s", reason),
		Category: "validation",
		Action:   "ตรวจสอบข้อมูลที่ส่งแล้วลองอีกครั้ง",
	}
}

// NewProductNotFoundError は商品が見つからない場合のエラーを生成する。
func NewProductNotFoundError(productID int64) *APIError {
	return &APIError{
		Code:     ErrCodeProductNotFound,
		Message:  fmt.Sprintf("ไม่พบสินค้า: %d", productID),
		Category: "order",
		Action:   "เลือกสินค้าจากรายการอีกครั้ง",
	}
}

// NewInventoryItemNotFoundError は在庫アイテムが見つからない場合のエラーを生成する。
func NewInventoryItemNotFoundError(itemID int64) *APIError {
	return &APIError{
		Code:     ErrCodeInventoryItemNotFound,
		Message:  fmt.Sprintf("ไม่พบรายการสินค้าคงคลัง: %d", itemID),
		Category: "inventory",
		Action:   "โหลดรายการสินค้าคงคลังใหม่แล้วลองอีกครั้ง",
	}
}

// NewOrderNotFoundError は注文が見つからない場合のエラーを生成する。
func NewOrderNotFoundError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodeOrderNotFound,
		Message:  fmt.Sprintf("ไม่พบคำสั่งซื้อ: %s", orderID),
		Category: "order",
		Action:   "ตรวจสอบหมายเลขคำสั่งซื้อ",
	}
}

// NewNotificationNotFoundError は通知が見つからない場合のエラーを生成する。
// 自動削除済みの通知を閉じようとした場合にも返る。
func NewNotificationNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeNotificationNotFound,
		Message:  fmt.Sprintf("ไม่พบการแจ้งเตือน: %d", id),
		Category: "system",
		Action:   "การแจ้งเตือนอาจหมดอายุแล้ว",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ไม่พบผู้ใช้",
		Category: "auth",
		Action:   "เข้าสู่ระบบใหม่อีกครั้ง",
	}
}

// NewEmailInUseError は変更先のメールアドレスを他の店舗が使用している場合のエラーを生成する。
func NewEmailInUseError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailInUse,
		Message:  fmt.Sprintf("อีเมลนี้ถูกใช้งานแล้ว: %s", email),
		Category: "validation",
		Action:   "ใช้อีเมลอื่น",
	}
}

// NewRateLimitExceededError はレート制限超過エラーを生成する。
func NewRateLimitExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "มีการใช้งานบ่อยเกินไป กรุณารอสักครู่",
		Category: "system",
		Action:   "รอตามเวลาที่กำหนดแล้วลองอีกครั้ง",
	}
}

// NewInternalError は内部エラーの統一レスポンス用エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "เกิดข้อผิดพลาด กรุณาลองอีกครั้ง",
		Category: "system",
		Action:   "รอสักครู่แล้วลองอีกครั้ง",
	}
}
