package descriptor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/temirov/pombump/internal/repos/filesystem"
)

const (
	versionElementNameConstant                   = "version"
	xmlDeclarationTargetConstant                 = "xml"
	defaultXMLDeclarationConstant                = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
	selfClosingTagSuffixConstant                 = "/>"
	versionFieldNotFoundMessageConstant          = "version field not found"
	descriptorIOMessageConstant                  = "descriptor input/output failure"
	descriptorErrorTemplateConstant              = "%w: %s: %w"
	descriptorReasonTemplateConstant             = "%w: %s: %s"
	versionFieldNotFoundTemplateConstant         = "%w: %s"
	xmlWhitespaceCharactersConstant              = " \t\r\n"
	unsupportedCharsetTemplateConstant           = "unsupported descriptor encoding %q"
	nestedVersionMarkupReasonConstant            = "version element contains nested markup"
	emptyVersionElementReasonConstant            = "version element has no text content to replace"
	missingRootElementReasonConstant             = "document has no root element"
	unencodableVersionReasonTemplateConstant     = "version %q cannot be written in the descriptor encoding"
	cdataVersionTerminatorReasonTemplateConstant = "version %q cannot be written inside a CDATA section"
	usASCIICharsetNameConstant                   = "us-ascii"
	asciiCharsetNameConstant                     = "ascii"
	cdataSectionStartConstant                    = "<![CDATA["
	cdataSectionEndConstant                      = "]]>"
	rootElementDepthConstant                     = 1
)

// ErrVersionFieldNotFound indicates a descriptor that has no version element in its root namespace.
var ErrVersionFieldNotFound = errors.New(versionFieldNotFoundMessageConstant)

// ErrDescriptorIO indicates a descriptor that could not be read, parsed, or written.
var ErrDescriptorIO = errors.New(descriptorIOMessageConstant)

// VersionField locates the text of a descriptor's version element.
type VersionField struct {
	// Path is the descriptor file location.
	Path string
	// Namespace is the root element namespace the version element belongs to.
	Namespace string
	// Value is the trimmed version text, taken from inside a CDATA section when the
	// element holds exactly one.
	Value string

	content        []byte
	charset        descriptorCharset
	valueStart     int
	valueEnd       int
	hasDeclaration bool
	selfClosing    bool
	cdata          bool
}

// Editor reads and rewrites descriptors through an afero filesystem.
type Editor struct {
	fileSystem afero.Fs
}

// NewEditor constructs an Editor; a nil filesystem selects the operating system.
func NewEditor(fileSystem afero.Fs) *Editor {
	return &Editor{fileSystem: filesystem.Resolve(fileSystem)}
}

// FindVersionField returns the first version element below the root, in document order,
// that shares the root element's namespace. Documents may be UTF-8, US-ASCII, or any
// single-byte charset named in the XML declaration, such as ISO-8859-1 or windows-1252.
func (editor *Editor) FindVersionField(descriptorPath string) (VersionField, error) {
	content, readError := afero.ReadFile(editor.fileSystem, descriptorPath)
	if readError != nil {
		return VersionField{}, fmt.Errorf(descriptorErrorTemplateConstant, ErrDescriptorIO, descriptorPath, readError)
	}

	charset, charsetError := resolveDescriptorCharset(content)
	if charsetError != nil {
		return VersionField{}, fmt.Errorf(descriptorErrorTemplateConstant, ErrDescriptorIO, descriptorPath, charsetError)
	}
	decodedContent, decodeError := charset.decode(content)
	if decodeError != nil {
		return VersionField{}, fmt.Errorf(descriptorErrorTemplateConstant, ErrDescriptorIO, descriptorPath, decodeError)
	}

	decoder := xml.NewDecoder(bytes.NewReader(decodedContent))
	decoder.CharsetReader = decodedCharsetReader
	offsets := sourceOffsetMapper{charset: charset, decodedContent: decodedContent}

	field := VersionField{Path: descriptorPath, content: content, charset: charset}
	depth := 0
	rootNamespace := ""
	versionDepth := 0
	rootSeen := false

	for {
		offsetBeforeToken := offsets.sourceOffset(int(decoder.InputOffset()))
		token, tokenError := decoder.Token()
		if errors.Is(tokenError, io.EOF) {
			break
		}
		if tokenError != nil {
			return VersionField{}, fmt.Errorf(descriptorErrorTemplateConstant, ErrDescriptorIO, descriptorPath, tokenError)
		}

		switch typedToken := token.(type) {
		case xml.ProcInst:
			if !rootSeen && typedToken.Target == xmlDeclarationTargetConstant {
				field.hasDeclaration = true
			}
		case xml.StartElement:
			depth++
			if depth == rootElementDepthConstant {
				rootSeen = true
				rootNamespace = typedToken.Name.Space
				continue
			}
			if versionDepth > 0 {
				return VersionField{}, fmt.Errorf(descriptorReasonTemplateConstant, ErrDescriptorIO, descriptorPath, nestedVersionMarkupReasonConstant)
			}
			if typedToken.Name.Local == versionElementNameConstant && typedToken.Name.Space == rootNamespace {
				versionDepth = depth
				field.valueStart = offsets.sourceOffset(int(decoder.InputOffset()))
				field.selfClosing = bytes.HasSuffix(content[:field.valueStart], []byte(selfClosingTagSuffixConstant))
			}
		case xml.EndElement:
			if versionDepth > 0 && depth == versionDepth {
				field.Namespace = rootNamespace
				field.valueEnd = offsetBeforeToken
				if field.selfClosing {
					field.valueEnd = field.valueStart
				}
				field.narrowValueSpan()
				value, valueError := charset.decodeString(content[field.valueStart:field.valueEnd])
				if valueError != nil {
					return VersionField{}, fmt.Errorf(descriptorErrorTemplateConstant, ErrDescriptorIO, descriptorPath, valueError)
				}
				field.Value = value
				return field, nil
			}
			depth--
		}
	}

	if !rootSeen {
		return VersionField{}, fmt.Errorf(descriptorReasonTemplateConstant, ErrDescriptorIO, descriptorPath, missingRootElementReasonConstant)
	}
	return VersionField{}, fmt.Errorf(versionFieldNotFoundTemplateConstant, ErrVersionFieldNotFound, descriptorPath)
}

// narrowValueSpan drops surrounding whitespace and, when the element holds a single
// CDATA section, the section delimiters.
func (field *VersionField) narrowValueSpan() {
	field.trimValueSpan()
	rawValue := field.content[field.valueStart:field.valueEnd]
	if !bytes.HasPrefix(rawValue, []byte(cdataSectionStartConstant)) || !bytes.HasSuffix(rawValue, []byte(cdataSectionEndConstant)) {
		return
	}
	if len(rawValue) < len(cdataSectionStartConstant)+len(cdataSectionEndConstant) {
		return
	}
	field.valueStart += len(cdataSectionStartConstant)
	field.valueEnd -= len(cdataSectionEndConstant)
	field.cdata = true
	field.trimValueSpan()
}

func (field *VersionField) trimValueSpan() {
	rawValue := string(field.content[field.valueStart:field.valueEnd])
	leadingTrimmed := strings.TrimLeft(rawValue, xmlWhitespaceCharactersConstant)
	field.valueStart += len(rawValue) - len(leadingTrimmed)
	fullyTrimmed := strings.TrimRight(leadingTrimmed, xmlWhitespaceCharactersConstant)
	field.valueEnd = field.valueStart + len(fullyTrimmed)
}

// WriteVersion replaces the version text with newValue and stores the document atomically.
func (editor *Editor) WriteVersion(field VersionField, newValue string) error {
	if field.selfClosing {
		return fmt.Errorf(descriptorReasonTemplateConstant, ErrDescriptorIO, field.Path, emptyVersionElementReasonConstant)
	}

	var markup bytes.Buffer
	if field.cdata {
		if strings.Contains(newValue, cdataSectionEndConstant) {
			return fmt.Errorf(descriptorReasonTemplateConstant, ErrDescriptorIO, field.Path, fmt.Sprintf(cdataVersionTerminatorReasonTemplateConstant, newValue))
		}
		markup.WriteString(newValue)
	} else if escapeError := xml.EscapeText(&markup, []byte(newValue)); escapeError != nil {
		return fmt.Errorf(descriptorErrorTemplateConstant, ErrDescriptorIO, field.Path, escapeError)
	}
	encodedValue, encodeError := field.charset.encode(markup.Bytes())
	if encodeError != nil {
		return fmt.Errorf(descriptorReasonTemplateConstant, ErrDescriptorIO, field.Path, fmt.Sprintf(unencodableVersionReasonTemplateConstant, newValue))
	}

	var updatedContent bytes.Buffer
	if !field.hasDeclaration {
		updatedContent.WriteString(defaultXMLDeclarationConstant)
	}
	updatedContent.Write(field.content[:field.valueStart])
	updatedContent.Write(encodedValue)
	updatedContent.Write(field.content[field.valueEnd:])

	if writeError := filesystem.WriteFileAtomically(editor.fileSystem, field.Path, updatedContent.Bytes()); writeError != nil {
		return fmt.Errorf(descriptorErrorTemplateConstant, ErrDescriptorIO, field.Path, writeError)
	}
	return nil
}

// descriptorCharset is the encoding named by a descriptor's XML declaration. A nil
// charmap means the bytes are already UTF-8 compatible.
type descriptorCharset struct {
	charmap *charmap.Charmap
}

// resolveDescriptorCharset reads the XML declaration, if any, and selects the charset.
// Multi-byte charsets other than UTF-8 are rejected.
func resolveDescriptorCharset(content []byte) (descriptorCharset, error) {
	declaredCharset := ""
	declarationDecoder := xml.NewDecoder(bytes.NewReader(content))
	declarationDecoder.CharsetReader = func(charsetLabel string, input io.Reader) (io.Reader, error) {
		declaredCharset = charsetLabel
		return input, nil
	}
	if _, tokenError := declarationDecoder.RawToken(); tokenError != nil || len(declaredCharset) == 0 {
		return descriptorCharset{}, nil
	}

	switch strings.ToLower(strings.TrimSpace(declaredCharset)) {
	case usASCIICharsetNameConstant, asciiCharsetNameConstant:
		return descriptorCharset{}, nil
	}

	namedEncoding, lookupError := ianaindex.IANA.Encoding(declaredCharset)
	if lookupError != nil || namedEncoding == nil {
		return descriptorCharset{}, fmt.Errorf(unsupportedCharsetTemplateConstant, declaredCharset)
	}
	if namedEncoding == unicode.UTF8 {
		return descriptorCharset{}, nil
	}
	singleByteCharmap, singleByte := namedEncoding.(*charmap.Charmap)
	if !singleByte {
		return descriptorCharset{}, fmt.Errorf(unsupportedCharsetTemplateConstant, declaredCharset)
	}
	return descriptorCharset{charmap: singleByteCharmap}, nil
}

func (charset descriptorCharset) decode(content []byte) ([]byte, error) {
	if charset.charmap == nil {
		return content, nil
	}
	return charset.charmap.NewDecoder().Bytes(content)
}

func (charset descriptorCharset) decodeString(content []byte) (string, error) {
	decodedContent, decodeError := charset.decode(content)
	if decodeError != nil {
		return "", decodeError
	}
	return string(decodedContent), nil
}

func (charset descriptorCharset) encode(content []byte) ([]byte, error) {
	if charset.charmap == nil {
		return content, nil
	}
	return charset.charmap.NewEncoder().Bytes(content)
}

// sourceOffsetMapper maps offsets in the decoded document back to the original bytes.
// A single-byte charset decodes every source byte to exactly one rune, so the source
// offset is the number of runes before the decoded offset. Offsets are requested in
// increasing order and counted incrementally.
type sourceOffsetMapper struct {
	charset        descriptorCharset
	decodedContent []byte
	decodedOffset  int
	sourceOffsetAt int
}

func (mapper *sourceOffsetMapper) sourceOffset(decodedOffset int) int {
	if mapper.charset.charmap == nil {
		return decodedOffset
	}
	if decodedOffset < mapper.decodedOffset {
		mapper.decodedOffset = 0
		mapper.sourceOffsetAt = 0
	}
	mapper.sourceOffsetAt += utf8.RuneCount(mapper.decodedContent[mapper.decodedOffset:decodedOffset])
	mapper.decodedOffset = decodedOffset
	return mapper.sourceOffsetAt
}

// decodedCharsetReader accepts the declared charset of content that was already decoded.
func decodedCharsetReader(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
