package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"legalsense/api/response"
	"legalsense/logic/extract"
	"legalsense/service"
	"legalsense/storage/postgres"
	"legalsense/types"
)

type DocumentHandler struct {
	docSvc      *service.DocumentService
	analysisSvc *service.AnalysisService
	qaSvc       *service.QAService
	searchSvc   *service.SearchService
	analyzer    *extract.Analyzer
}

func NewDocumentHandler(docSvc *service.DocumentService, analysisSvc *service.AnalysisService, qaSvc *service.QAService, searchSvc *service.SearchService, analyzer *extract.Analyzer) *DocumentHandler {
	return &DocumentHandler{
		docSvc:      docSvc,
		analysisSvc: analysisSvc,
		qaSvc:       qaSvc,
		searchSvc:   searchSvc,
		analyzer:    analyzer,
	}
}

// Upload 上传文档接口，支持多文件
func (h *DocumentHandler) Upload(c *gin.Context) {
	fmt.Println(">>> [DEBUG] 1. 进入 Upload Handler")
	form, err := c.MultipartForm()
	if err != nil {
		fmt.Println(">>> [DEBUG] error: 表单解析失败", err)
		response.Fail(c, "file upload failed or malformed request")
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		response.Fail(c, "no file received, expected form field 'file'")
		return
	}
	fmt.Printf(">>> [DEBUG] 2. 收到文件列表，共 %d 个文件\n", len(files))

	lang := types.ParseLanguage(c.PostForm("language"))

	var docIDs []string
	var errorFiles []string
	for _, file := range files {
		fmt.Printf(">>> [DEBUG] ---> 开始处理文件: %s, 大小: %d\n", file.Filename, file.Size)

		id, err := h.docSvc.UploadAndProcess(c.Request.Context(), file, lang)
		if err != nil {
			fmt.Printf(">>> [ERROR] 文件 %s 处理失败: %v\n", file.Filename, err)
			errorFiles = append(errorFiles, file.Filename)
			// 单个文件失败不影响其他文件
			continue
		}
		docIDs = append(docIDs, id)
	}

	fmt.Printf(">>> [DEBUG] 3. 批量处理完成，成功 %d 个\n", len(docIDs))

	if len(docIDs) == 0 && len(errorFiles) > 0 {
		response.Fail(c, fmt.Sprintf("all files failed: %v", errorFiles))
		return
	}

	response.Success(c, map[string]any{
		"doc_ids":     docIDs,
		"status":      "indexed",
		"total_count": len(docIDs),
		"fail_files":  errorFiles,
	})
}

// Get 查询文档元信息
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.docSvc.GetDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, postgres.ErrNotFound) {
		response.Fail(c, "document not found")
		return
	}
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, map[string]any{
		"doc_id":      doc.DocID,
		"file_name":   doc.FileName,
		"title":       doc.Title,
		"language":    doc.Language,
		"word_count":  doc.WordCount,
		"page_count":  doc.PageCount,
		"status":      doc.Status,
		"uploaded_at": doc.UploadedAt,
	})
}

// Delete 删除文档及其索引
func (h *DocumentHandler) Delete(c *gin.Context) {
	err := h.docSvc.DeleteDocument(c.Request.Context(), c.Param("id"))
	if errors.Is(err, postgres.ErrNotFound) {
		response.Fail(c, "document not found")
		return
	}
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, map[string]any{"deleted": true})
}

// Search 关键词检索
func (h *DocumentHandler) Search(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request: query is required")
		return
	}

	fmt.Printf(">>> [DEBUG] 收到搜索请求: %s\n", req.Query)

	hits, err := h.searchSvc.Search(c.Request.Context(), req.Query, types.LanguageCode(req.Language))
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, hits)
}

// Analyze 文档完整分析。除了文档不存在，这个接口不会失败
func (h *DocumentHandler) Analyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request: document_id is required")
		return
	}

	result, err := h.analysisSvc.AnalyzeByID(c.Request.Context(), req.DocumentID, types.ParseLanguage(req.Language))
	if err != nil {
		response.Fail(c, failMsg(err))
		return
	}
	response.Success(c, result)
}

// Ask 针对文档提问
func (h *DocumentHandler) Ask(c *gin.Context) {
	var req types.QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request: document_id and question are required")
		return
	}

	answer, err := h.qaSvc.AnswerByID(c.Request.Context(), req.DocumentID, req.Question, types.ParseLanguage(req.Language))
	if err != nil {
		response.Fail(c, failMsg(err))
		return
	}
	response.Success(c, map[string]any{
		"document_id": req.DocumentID,
		"question":    req.Question,
		"answer":      answer,
	})
}

// Suggest 推荐问题列表
func (h *DocumentHandler) Suggest(c *gin.Context) {
	var req types.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request: document_id is required")
		return
	}

	questions, err := h.qaSvc.SuggestedByID(c.Request.Context(), req.DocumentID)
	if err != nil {
		response.Fail(c, failMsg(err))
		return
	}
	response.Success(c, map[string]any{
		"document_id": req.DocumentID,
		"questions":   questions,
	})
}

// failMsg 文档不存在和底层错误（DB 挂了之类）要区分，
// 不能把所有失败都报成 not found
func failMsg(err error) string {
	if errors.Is(err, postgres.ErrNotFound) {
		return "document not found"
	}
	return err.Error()
}

// Health 健康检查，带上生成式模型可用状态
func (h *DocumentHandler) Health(c *gin.Context) {
	mode := "local_only"
	if h.analyzer.Available() {
		mode = "generative"
	}
	response.Success(c, map[string]any{
		"status": "ok",
		"mode":   mode,
	})
}
