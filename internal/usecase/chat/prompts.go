package chat

import (
	"fmt"
	"strings"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
)

const categoryPromptEN = `Classify the following customer support query into one of these categories:
- Product FAQ: Questions about product features, specifications, usage
- Tech issue: Technical problems, bugs, troubleshooting
- Transactional: Orders, payments, refunds, account issues

Respond with JSON in this format: {"category": "category_name", "confidence": float_between_0_and_1}

Query: %s`

const categoryPromptAR = `صنف استفسار دعم العملاء التالي إلى إحدى هذه الفئات:
- Product FAQ: أسئلة حول ميزات المنتج والمواصفات والاستخدام
- Tech issue: مشاكل تقنية وأخطاء واستكشاف الأخطاء وإصلاحها
- Transactional: طلبات ومدفوعات واسترداد ومشاكل الحساب

أجب بصيغة JSON: {"category": "category_name", "confidence": float_between_0_and_1}

الاستفسار: %s`

const systemPromptEN = `You are an intelligent customer support assistant. Use ONLY the provided information to answer the customer's query.
Query category: %s

Important rules:
1. Use only the information provided in the context
2. If you cannot find an answer in the context, say "I apologize, but I cannot find specific information about this topic"
3. Be helpful and polite
4. Provide clear and detailed answers

Available context:
%s`

const systemPromptAR = `أنت مساعد دعم عملاء ذكي. استخدم المعلومات المقدمة فقط للإجابة على استفسار العميل.
فئة الاستفسار: %s

قواعد مهمة:
1. استخدم فقط المعلومات المقدمة في السياق
2. إذا لم تجد إجابة في السياق، قل "أعتذر، لا أستطيع العثور على معلومات محددة حول هذا الموضوع"
3. كن مفيداً ومهذباً
4. قدم إجابات واضحة ومفصلة

السياق المتاح:
%s`

const noContextPlaceholder = "No relevant context found."

// fallbackResponses is the localized apology used on any unrecoverable
// generation failure.
var fallbackResponses = map[domain.Language]string{
	domain.LangEnglish: "I apologize, but I'm having trouble processing your request right now. Please try again or contact our human support team for assistance.",
	domain.LangArabic: "أعتذر، لكنني أواجه صعوبة في معالجة طلبك الآن. يرجى المحاولة مرة أخرى أو الاتصال بفريق الدعم البشري للحصول على المساعدة.",
}

// uncertaintyPhrases mark generated answers that admit not knowing; their
// presence caps the response confidence.
var uncertaintyPhrases = map[domain.Language][]string{
	domain.LangEnglish: {"cannot find", "not sure", "unclear", "apologize"},
	domain.LangArabic: {"لا أستطيع", "غير متأكد", "أعتذر", "غير واضح"},
}

func categoryPrompt(lang domain.Language, query string) string {
	if lang == domain.LangArabic {
		return fmt.Sprintf(categoryPromptAR, query)
	}
	return fmt.Sprintf(categoryPromptEN, query)
}

func systemPrompt(lang domain.Language, category string, contexts []string) string {
	contextText := noContextPlaceholder
	if len(contexts) > 0 {
		contextText = strings.Join(contexts, "\n\n")
	}
	if lang == domain.LangArabic {
		return fmt.Sprintf(systemPromptAR, category, contextText)
	}
	return fmt.Sprintf(systemPromptEN, category, contextText)
}

func userPrompt(lang domain.Language, query string) string {
	if lang == domain.LangArabic {
		return "استفسار العميل: " + query
	}
	return "Customer query: " + query
}

func fallbackResponse(lang domain.Language) string {
	if resp, ok := fallbackResponses[lang]; ok {
		return resp
	}
	return fallbackResponses[domain.LangEnglish]
}

func soundsUncertain(lang domain.Language, response string) bool {
	phrases, ok := uncertaintyPhrases[lang]
	if !ok {
		phrases = uncertaintyPhrases[domain.LangEnglish]
	}
	lower := strings.ToLower(response)
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
